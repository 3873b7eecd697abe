package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alextreichler/dinedash/internal/models"
	"github.com/alextreichler/dinedash/internal/receipt"
	"github.com/alextreichler/dinedash/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type OrderHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
}

func (h *OrderHandler) orderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// Screen renders the order-taking view: line items with steppers, the menu
// grouped by category, and running totals.
func (h *OrderHandler) Screen(w http.ResponseWriter, r *http.Request) {
	id, err := h.orderID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	order, err := h.Store.GetOrder(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}

	items, err := h.Store.GetOrderItems(id)
	if err != nil {
		http.Error(w, "Error fetching items", http.StatusInternalServerError)
		return
	}

	products, err := h.Store.ListProducts()
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	byCategory := make(map[string][]models.Product)
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	taxRate, err := h.Store.TaxRate()
	if err != nil {
		http.Error(w, "Error reading settings", http.StatusInternalServerError)
		return
	}
	totals := receipt.TotalsFromItems(items, taxRate)

	tmpl := h.Templates.Get("order.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, sess := currentSession(h.SessionStore, r)
	data := map[string]interface{}{
		"Order":      order,
		"Items":      items,
		"ByCategory": byCategory,
		"Totals":     totals,
		"TaxRate":    taxRate,
		"Session":    sess,
		"CsrfField":  csrf.TemplateField(r),
		"Flashes":    GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// AddItem handles both the tap-a-product button (quantity 1) and a bulk
// add; the store merges repeats into one line.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session, _ := currentSession(h.SessionStore, r)

	orderID, err := strconv.ParseInt(r.FormValue("order_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order", http.StatusBadRequest)
		return
	}
	productID, err := strconv.Atoi(r.FormValue("product_id"))
	if err != nil {
		http.Error(w, "Invalid product", http.StatusBadRequest)
		return
	}
	quantity := 1
	if q := r.FormValue("quantity"); q != "" {
		if quantity, err = strconv.Atoi(q); err != nil || quantity < 1 {
			http.Error(w, "Invalid quantity", http.StatusBadRequest)
			return
		}
	}

	// Snapshot the current catalog price into the order line.
	product, err := h.Store.GetProduct(productID)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}

	err = h.Store.AddItem(orderID, productID, quantity, product.Price)
	if errors.Is(err, store.ErrOrderClosed) {
		session.AddFlash(FlashMessage{Type: "error", Message: "This order is already closed."})
		session.Save(r, w)
		http.Redirect(w, r, "/floor", http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Error(w, "Error adding item", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/order/%d", orderID), http.StatusSeeOther)
}

// SetQuantity backs the +/- steppers and the remove button; zero deletes
// the line.
func (h *OrderHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	session, _ := currentSession(h.SessionStore, r)

	orderID, err := strconv.ParseInt(r.FormValue("order_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order", http.StatusBadRequest)
		return
	}
	itemID, err := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid item", http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		http.Error(w, "Invalid quantity", http.StatusBadRequest)
		return
	}

	err = h.Store.SetItemQuantity(itemID, quantity)
	switch {
	case errors.Is(err, store.ErrOrderClosed):
		session.AddFlash(FlashMessage{Type: "error", Message: "This order is already closed."})
		session.Save(r, w)
		http.Redirect(w, r, "/floor", http.StatusSeeOther)
		return
	case errors.Is(err, store.ErrNotFound):
		// Stale screen; re-render the order.
	case err != nil:
		http.Error(w, "Error updating item", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/order/%d", orderID), http.StatusSeeOther)
}

// Close freezes the bill and shows the receipt.
func (h *OrderHandler) Close(w http.ResponseWriter, r *http.Request) {
	session, _ := currentSession(h.SessionStore, r)

	orderID, err := strconv.ParseInt(r.FormValue("order_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order", http.StatusBadRequest)
		return
	}

	_, err = h.Store.CloseOrder(orderID)
	switch {
	case errors.Is(err, store.ErrEmptyOrder):
		session.AddFlash(FlashMessage{Type: "error", Message: "Cannot close an order with no items."})
		session.Save(r, w)
		http.Redirect(w, r, fmt.Sprintf("/order/%d", orderID), http.StatusSeeOther)
		return
	case errors.Is(err, store.ErrOrderClosed):
		session.AddFlash(FlashMessage{Type: "error", Message: "This order is already closed."})
		session.Save(r, w)
		http.Redirect(w, r, "/floor", http.StatusSeeOther)
		return
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		http.Error(w, "Error closing order", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/receipt/%d", orderID), http.StatusSeeOther)
}

// Receipt shows the printable receipt for a closed order.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := h.orderID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, err := h.receiptData(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error building receipt", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("receipt.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, sess := currentSession(h.SessionStore, r)
	tmplData := map[string]interface{}{
		"Order":   data.Order,
		"Text":    receipt.Render(*data),
		"Session": sess,
		"Flashes": GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, tmplData)
}

// Download serves the receipt as a plain-text file, named after the
// close timestamp and reference.
func (h *OrderHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := h.orderID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, err := h.receiptData(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error building receipt", http.StatusInternalServerError)
		return
	}
	if data.Order.ClosedAt == nil || data.Order.ReceiptRef == "" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", receipt.Filename(data.Order.ReceiptRef, *data.Order.ClosedAt)))
	fmt.Fprint(w, receipt.Render(*data))
}

// ReceiptQR serves the QR code printed on the receipt.
func (h *OrderHandler) ReceiptQR(w http.ResponseWriter, r *http.Request) {
	id, err := h.orderID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	order, err := h.Store.GetOrder(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}
	if order.ReceiptRef == "" {
		http.NotFound(w, r)
		return
	}

	png, err := receipt.QR(order.ReceiptRef)
	if err != nil {
		http.Error(w, "Error rendering QR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Reprint re-renders the most recent receipt for a table. Read-only: the
// closed order is never touched.
func (h *OrderHandler) Reprint(w http.ResponseWriter, r *http.Request) {
	session, _ := currentSession(h.SessionStore, r)

	tableID, err := strconv.Atoi(r.FormValue("table_id"))
	if err != nil {
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return
	}

	last, err := h.Store.GetLastClosedOrderForTable(tableID)
	if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}
	if last == nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "No closed orders for this table yet."})
		session.Save(r, w)
		http.Redirect(w, r, "/floor", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/receipt/%d", last.ID), http.StatusSeeOther)
}

func (h *OrderHandler) receiptData(orderID int64) (*receipt.Data, error) {
	order, err := h.Store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	items, err := h.Store.GetOrderItems(orderID)
	if err != nil {
		return nil, err
	}
	taxRate, err := h.Store.TaxRate()
	if err != nil {
		return nil, err
	}

	name, err := h.Store.Setting("restaurant_name")
	if errors.Is(err, store.ErrNotFound) {
		name = "DineDash"
	} else if err != nil {
		return nil, err
	}
	currency, err := h.Store.Setting("currency")
	if errors.Is(err, store.ErrNotFound) {
		currency = "$"
	} else if err != nil {
		return nil, err
	}

	return &receipt.Data{
		RestaurantName: name,
		Currency:       currency,
		Order:          order,
		Items:          items,
		Totals:         receipt.TotalsFromItems(items, taxRate),
	}, nil
}
