package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alextreichler/dinedash/internal/config"
	"github.com/alextreichler/dinedash/internal/handlers"
	"github.com/alextreichler/dinedash/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB: schema then seed, both idempotent. Any storage failure
	// here is fatal.
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	if err := db.InitSchema(); err != nil {
		slog.Error("Failed to initialize schema", "error", err)
		os.Exit(1)
	}
	if err := db.Seed(); err != nil {
		slog.Error("Failed to seed database", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Setup Handlers
	authHandler := &handlers.AuthHandler{Store: db, SessionStore: sessionStore, Templates: templates}
	floorHandler := &handlers.FloorHandler{Store: db, SessionStore: sessionStore, Templates: templates}
	orderHandler := &handlers.OrderHandler{Store: db, SessionStore: sessionStore, Templates: templates}
	adminHandler := &handlers.AdminHandler{Store: db, SessionStore: sessionStore, Templates: templates, UploadDir: "static/uploads"}
	reportsHandler := &handlers.ReportsHandler{Store: db, SessionStore: sessionStore, Templates: templates}
	settingsHandler := &handlers.SettingsHandler{Store: db, SessionStore: sessionStore, Templates: templates}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Login
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/floor", http.StatusSeeOther)
	})
	mux.HandleFunc("/login", authHandler.LoginGet)
	mux.HandleFunc("POST /login", authHandler.LoginPost)
	mux.HandleFunc("/logout", authHandler.Logout)

	// Floor and order screens
	mux.HandleFunc("/floor", authHandler.RequireAuth(floorHandler.Floor))
	mux.HandleFunc("POST /floor/select", authHandler.RequireAuth(floorHandler.SelectTable))
	mux.HandleFunc("/order/{id}", authHandler.RequireAuth(orderHandler.Screen))
	mux.HandleFunc("POST /order/item", authHandler.RequireAuth(orderHandler.AddItem))
	mux.HandleFunc("POST /order/item/quantity", authHandler.RequireAuth(orderHandler.SetQuantity))
	mux.HandleFunc("POST /order/close", authHandler.RequireAuth(orderHandler.Close))
	mux.HandleFunc("/receipt/{id}", authHandler.RequireAuth(orderHandler.Receipt))
	mux.HandleFunc("/receipt/{id}/qr.png", authHandler.RequireAuth(orderHandler.ReceiptQR))
	mux.HandleFunc("/receipt/{id}/download", authHandler.RequireAuth(orderHandler.Download))
	mux.HandleFunc("POST /reprint", authHandler.RequireAuth(orderHandler.Reprint))

	// Admin screens
	mux.HandleFunc("/admin/products", authHandler.RequireAdmin(adminHandler.ListProducts))
	mux.HandleFunc("POST /admin/products", authHandler.RequireAdmin(adminHandler.CreateProduct))
	mux.HandleFunc("POST /admin/products/update", authHandler.RequireAdmin(adminHandler.UpdateProduct))
	mux.HandleFunc("POST /admin/products/delete", authHandler.RequireAdmin(adminHandler.DeleteProduct))
	mux.HandleFunc("POST /admin/products/image", authHandler.RequireAdmin(adminHandler.UploadProductImage))
	mux.HandleFunc("/admin/tables", authHandler.RequireAdmin(adminHandler.ListTables))
	mux.HandleFunc("POST /admin/tables", authHandler.RequireAdmin(adminHandler.CreateTable))
	mux.HandleFunc("POST /admin/tables/delete", authHandler.RequireAdmin(adminHandler.DeleteTable))
	mux.HandleFunc("/admin/users", authHandler.RequireAdmin(adminHandler.ListUsers))
	mux.HandleFunc("POST /admin/users", authHandler.RequireAdmin(adminHandler.CreateUser))
	mux.HandleFunc("POST /admin/users/delete", authHandler.RequireAdmin(adminHandler.DeleteUser))
	mux.HandleFunc("/admin/reports", authHandler.RequireAdmin(reportsHandler.Reports))
	mux.HandleFunc("/admin/settings", authHandler.RequireAdmin(settingsHandler.Settings))
	mux.HandleFunc("POST /admin/settings", authHandler.RequireAdmin(settingsHandler.Save))
	mux.HandleFunc("POST /admin/license", authHandler.RequireAdmin(settingsHandler.ActivateLicense))

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("POS server starting", "port", cfg.Port, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
