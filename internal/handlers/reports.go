package handlers

import (
	"net/http"
	"time"

	"github.com/alextreichler/dinedash/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type ReportsHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
}

const topProductsLimit = 10

// Reports renders the sales dashboard for a date range (defaults to today).
func (h *ReportsHandler) Reports(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := startOfDay(now)
	to := from.AddDate(0, 0, 1)

	if f := r.FormValue("from"); f != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", f, time.Local); err == nil {
			from = parsed
		}
	}
	if t := r.FormValue("to"); t != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", t, time.Local); err == nil {
			to = parsed.AddDate(0, 0, 1) // inclusive end date
		}
	}

	daily, err := h.Store.DailySummary(from)
	if err != nil {
		http.Error(w, "Error fetching daily summary", http.StatusInternalServerError)
		return
	}
	top, err := h.Store.TopProducts(from, to, topProductsLimit)
	if err != nil {
		http.Error(w, "Error fetching top products", http.StatusInternalServerError)
		return
	}
	staff, err := h.Store.StaffPerformance(from, to)
	if err != nil {
		http.Error(w, "Error fetching staff performance", http.StatusInternalServerError)
		return
	}
	history, err := h.Store.OrderHistory(from, to)
	if err != nil {
		http.Error(w, "Error fetching order history", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("reports.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, sess := currentSession(h.SessionStore, r)
	data := map[string]interface{}{
		"From":      from.Format("2006-01-02"),
		"To":        to.AddDate(0, 0, -1).Format("2006-01-02"),
		"Daily":     daily,
		"Top":       top,
		"Staff":     staff,
		"History":   history,
		"Session":   sess,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
