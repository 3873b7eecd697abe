package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/alextreichler/dinedash/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type SettingsHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
}

// demoLicenseKey is the demo activation key. Activation only flips the
// license_status setting; nothing in the order flow reads it.
const demoLicenseKey = "DEMO-1234-5678-9012"

func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	taxRate, err := h.Store.TaxRate()
	if err != nil {
		http.Error(w, "Error reading settings", http.StatusInternalServerError)
		return
	}
	license, err := h.Store.LicenseStatus()
	if err != nil {
		http.Error(w, "Error reading settings", http.StatusInternalServerError)
		return
	}

	name, err := h.Store.Setting("restaurant_name")
	if err != nil && err != store.ErrNotFound {
		http.Error(w, "Error reading settings", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("settings.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, sess := currentSession(h.SessionStore, r)
	data := map[string]interface{}{
		"TaxRate":        taxRate,
		"LicenseStatus":  license,
		"RestaurantName": name,
		"Session":        sess,
		"CsrfField":      csrf.TemplateField(r),
		"Flashes":        GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	session, _ := currentSession(h.SessionStore, r)

	if name := r.FormValue("restaurant_name"); name != "" {
		if err := h.Store.SetSetting("restaurant_name", name); err != nil {
			http.Error(w, "Error saving settings", http.StatusInternalServerError)
			return
		}
	}

	rateStr := r.FormValue("tax_rate")
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rate < 0 || rate >= 1 {
		session.AddFlash(FlashMessage{Type: "error", Message: "Tax rate must be a fraction between 0 and 1, e.g. 0.10."})
		session.Save(r, w)
		http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
		return
	}
	if err := h.Store.SetSetting("tax_rate", rateStr); err != nil {
		http.Error(w, "Error saving settings", http.StatusInternalServerError)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Settings saved. New closings use the new tax rate."})
	session.Save(r, w)
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}

func (h *SettingsHandler) ActivateLicense(w http.ResponseWriter, r *http.Request) {
	session, _ := currentSession(h.SessionStore, r)

	key := r.FormValue("license_key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(demoLicenseKey)) != 1 {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid license key."})
		session.Save(r, w)
		http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
		return
	}

	if err := h.Store.SetLicenseStatus("licensed"); err != nil {
		http.Error(w, "Error saving license", http.StatusInternalServerError)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "License activated."})
	session.Save(r, w)
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}
