package store

import (
	"fmt"
	"log/slog"

	"github.com/alextreichler/dinedash/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	username string
	password string
	role     models.Role
}

type seedTable struct {
	name     string
	capacity int
}

type seedProduct struct {
	name     string
	price    float64
	category string
}

var (
	defaultUsers = []seedUser{
		{"admin", "admin", models.RoleAdmin},
		{"jessica", "jessica", models.RoleServer},
		{"david", "david", models.RoleServer},
	}

	defaultTables = []seedTable{
		{"T1", 2}, {"T2", 4}, {"T3", 4}, {"T4", 6},
		{"T5", 2}, {"T6", 4}, {"T7", 6}, {"T8", 4},
		{"P1", 8}, {"P2", 4}, {"B1", 2}, {"B2", 2},
	}

	defaultProducts = []seedProduct{
		{"Spring Rolls", 8.99, "Appetizers"},
		{"Garlic Bread", 6.50, "Appetizers"},
		{"Buffalo Wings", 12.99, "Appetizers"},
		{"Margherita Pizza", 15.99, "Mains"},
		{"Spaghetti Carbonara", 18.50, "Mains"},
		{"Grilled Salmon", 24.99, "Mains"},
		{"Caesar Salad", 12.99, "Mains"},
		{"Tiramisu", 9.50, "Desserts"},
		{"Chocolate Cake", 7.99, "Desserts"},
		{"Coca-Cola", 3.50, "Drinks"},
		{"Orange Juice", 4.99, "Drinks"},
		{"Coffee", 3.50, "Drinks"},
	}

	defaultSettings = map[string]string{
		"restaurant_name": "DineDash Restaurant",
		"currency":        "$",
		"tax_rate":        "0.10",
		"license_status":  "unlicensed",
	}
)

// Seed fills an empty database with a starter data set. Each section is
// guarded by a COUNT(*) check, so running it against a populated database
// changes nothing.
func (s *Store) Seed() error {
	var count int

	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check users: %w", err)
	}
	if count == 0 {
		for _, u := range defaultUsers {
			hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			if _, err := s.CreateUser(u.username, string(hashed), u.role); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.username, err)
			}
		}
		slog.Info("Seeded default users", "count", len(defaultUsers))
	}

	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM tables`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check tables: %w", err)
	}
	if count == 0 {
		for _, t := range defaultTables {
			if _, err := s.CreateTable(t.name, t.capacity); err != nil {
				return fmt.Errorf("failed to seed table %s: %w", t.name, err)
			}
		}
		slog.Info("Seeded default tables", "count", len(defaultTables))
	}

	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check products: %w", err)
	}
	if count == 0 {
		for _, p := range defaultProducts {
			product := &models.Product{Name: p.name, Price: p.price, Category: p.category}
			if _, err := s.CreateProduct(product); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.name, err)
			}
		}
		slog.Info("Seeded starter catalog", "count", len(defaultProducts))
	}

	for key, value := range defaultSettings {
		if err := s.DB.QueryRow(`SELECT COUNT(*) FROM settings WHERE key = ?`, key).Scan(&count); err != nil {
			return fmt.Errorf("failed to check setting %s: %w", key, err)
		}
		if count == 0 {
			if err := s.SetSetting(key, value); err != nil {
				return fmt.Errorf("failed to seed setting %s: %w", key, err)
			}
		}
	}

	return nil
}
