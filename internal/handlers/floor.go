package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alextreichler/dinedash/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type FloorHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
}

// Floor renders the table grid. Occupancy comes fresh from the store on
// every render.
func (h *FloorHandler) Floor(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Store.ListTables()
	if err != nil {
		http.Error(w, "Error fetching tables", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("floor.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, sess := currentSession(h.SessionStore, r)
	data := map[string]interface{}{
		"Tables":    tables,
		"Session":   sess,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// SelectTable opens the table's order screen: an occupied table goes to its
// existing open order, an available one gets a fresh order.
func (h *FloorHandler) SelectTable(w http.ResponseWriter, r *http.Request) {
	session, sess := currentSession(h.SessionStore, r)

	tableID, err := strconv.Atoi(r.FormValue("table_id"))
	if err != nil {
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return
	}

	if open, err := h.Store.GetOpenOrderForTable(tableID); err == nil && open != nil {
		http.Redirect(w, r, fmt.Sprintf("/order/%d", open.ID), http.StatusSeeOther)
		return
	} else if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}

	orderID, err := h.Store.CreateOrder(tableID, sess.UserID)
	if errors.Is(err, store.ErrTableOccupied) {
		// Lost the race with ourselves; fall through to the open order.
		if open, lookupErr := h.Store.GetOpenOrderForTable(tableID); lookupErr == nil && open != nil {
			http.Redirect(w, r, fmt.Sprintf("/order/%d", open.ID), http.StatusSeeOther)
			return
		}
		session.AddFlash(FlashMessage{Type: "error", Message: "Table is occupied."})
		session.Save(r, w)
		http.Redirect(w, r, "/floor", http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Error(w, "Error creating order", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/order/%d", orderID), http.StatusSeeOther)
}
