package handlers

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alextreichler/dinedash/internal/models"
	"github.com/alextreichler/dinedash/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/nfnt/resize"
	"golang.org/x/crypto/bcrypt"
)

type AdminHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	UploadDir    string
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	tmpl := h.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, sess := currentSession(h.SessionStore, r)
	data["Session"] = sess
	data["CsrfField"] = csrf.TemplateField(r)
	data["Flashes"] = GetFlash(session)
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) flashAndRedirect(w http.ResponseWriter, r *http.Request, kind, msg, target string) {
	session, _ := currentSession(h.SessionStore, r)
	session.AddFlash(FlashMessage{Type: kind, Message: msg})
	session.Save(r, w)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// --- Products ---

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts()
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin_products.html", map[string]interface{}{"Products": products})
}

func (h *AdminHandler) parseProductForm(r *http.Request) (*models.Product, string) {
	name := r.FormValue("name")
	category := r.FormValue("category")
	priceStr := r.FormValue("price")

	if name == "" || category == "" {
		return nil, "Name and category are required."
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		return nil, "Price must be a non-negative number."
	}
	return &models.Product{Name: name, Price: price, Category: category}, ""
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	product, msg := h.parseProductForm(r)
	if msg != "" {
		h.flashAndRedirect(w, r, "error", msg, "/admin/products")
		return
	}

	if _, err := h.Store.CreateProduct(product); err != nil {
		h.flashAndRedirect(w, r, "error", "Error saving product.", "/admin/products")
		return
	}
	h.flashAndRedirect(w, r, "success", "Product added.", "/admin/products")
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid product.", "/admin/products")
		return
	}
	product, msg := h.parseProductForm(r)
	if msg != "" {
		h.flashAndRedirect(w, r, "error", msg, "/admin/products")
		return
	}
	product.ID = id

	if err := h.Store.UpdateProduct(product); err != nil {
		h.flashAndRedirect(w, r, "error", "Error updating product.", "/admin/products")
		return
	}
	h.flashAndRedirect(w, r, "success", "Product updated. Past orders keep their old prices.", "/admin/products")
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid product.", "/admin/products")
		return
	}

	err = h.Store.DeleteProduct(id)
	if errors.Is(err, store.ErrInUse) {
		h.flashAndRedirect(w, r, "error", "Product appears on past orders and cannot be deleted.", "/admin/products")
		return
	}
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Error deleting product.", "/admin/products")
		return
	}
	h.flashAndRedirect(w, r, "success", "Product deleted.", "/admin/products")
}

// UploadProductImage stores a resized product photo and records its URL.
func (h *AdminHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.flashAndRedirect(w, r, "error", "File too large. Max 10MB.", "/admin/products")
		return
	}

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid product.", "/admin/products")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Image file is required.", "/admin/products")
		return
	}
	defer file.Close()

	var img image.Image
	switch filepath.Ext(header.Filename) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		h.flashAndRedirect(w, r, "error", "Only PNG and JPEG images are supported.", "/admin/products")
		return
	}
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Failed to decode image.", "/admin/products")
		return
	}

	// Menu buttons are small; 400px wide is plenty.
	thumb := resize.Resize(400, 0, img, resize.Lanczos3)

	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.flashAndRedirect(w, r, "error", "Error saving image.", "/admin/products")
		return
	}
	out, err := os.Create(filepath.Join(h.UploadDir, filename))
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Error saving image.", "/admin/products")
		return
	}
	defer out.Close()

	if err := jpeg.Encode(out, thumb, &jpeg.Options{Quality: 80}); err != nil {
		h.flashAndRedirect(w, r, "error", "Error encoding image.", "/admin/products")
		return
	}

	if err := h.Store.UpdateProductImage(id, "/static/uploads/"+filename); err != nil {
		h.flashAndRedirect(w, r, "error", "Error recording image.", "/admin/products")
		return
	}
	h.flashAndRedirect(w, r, "success", "Image updated.", "/admin/products")
}

// --- Tables ---

func (h *AdminHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Store.ListTables()
	if err != nil {
		http.Error(w, "Error fetching tables", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin_tables.html", map[string]interface{}{"Tables": tables})
}

func (h *AdminHandler) CreateTable(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	capacity, err := strconv.Atoi(r.FormValue("capacity"))
	if name == "" || err != nil || capacity < 1 {
		h.flashAndRedirect(w, r, "error", "Table needs a name and a positive capacity.", "/admin/tables")
		return
	}

	if _, err := h.Store.CreateTable(name, capacity); err != nil {
		h.flashAndRedirect(w, r, "error", "Error saving table (names must be unique).", "/admin/tables")
		return
	}
	h.flashAndRedirect(w, r, "success", "Table added.", "/admin/tables")
}

func (h *AdminHandler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid table.", "/admin/tables")
		return
	}

	err = h.Store.DeleteTable(id)
	if errors.Is(err, store.ErrTableOccupied) {
		h.flashAndRedirect(w, r, "error", "Table has an open order and cannot be deleted.", "/admin/tables")
		return
	}
	if errors.Is(err, store.ErrInUse) {
		h.flashAndRedirect(w, r, "error", "Table appears on past orders and cannot be deleted.", "/admin/tables")
		return
	}
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Error deleting table.", "/admin/tables")
		return
	}
	h.flashAndRedirect(w, r, "success", "Table deleted.", "/admin/tables")
}

// --- Users ---

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers()
	if err != nil {
		http.Error(w, "Error fetching users", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin_users.html", map[string]interface{}{"Users": users})
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	role := models.Role(r.FormValue("role"))

	if username == "" || password == "" || (role != models.RoleAdmin && role != models.RoleServer) {
		h.flashAndRedirect(w, r, "error", "Username, password and a valid role are required.", "/admin/users")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Error hashing password.", "/admin/users")
		return
	}

	if _, err := h.Store.CreateUser(username, string(hashed), role); err != nil {
		h.flashAndRedirect(w, r, "error", "Error saving user (usernames must be unique).", "/admin/users")
		return
	}
	h.flashAndRedirect(w, r, "success", "User added.", "/admin/users")
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid user.", "/admin/users")
		return
	}

	err = h.Store.DeleteUser(id)
	if errors.Is(err, store.ErrInUse) {
		h.flashAndRedirect(w, r, "error", "User has orders on record and cannot be deleted.", "/admin/users")
		return
	}
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Error deleting user.", "/admin/users")
		return
	}
	h.flashAndRedirect(w, r, "success", "User deleted.", "/admin/users")
}
