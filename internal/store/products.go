package store

import (
	"database/sql"

	"github.com/alextreichler/dinedash/internal/models"
)

func (s *Store) ListProducts() ([]models.Product, error) {
	query := `SELECT id, name, price, category, image_url, created_at FROM products ORDER BY category, name`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) Categories() ([]string, error) {
	rows, err := s.DB.Query(`SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) GetProduct(id int) (*models.Product, error) {
	query := `SELECT id, name, price, category, image_url, created_at FROM products WHERE id = ?`
	var p models.Product
	err := s.DB.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.ImageURL, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(p *models.Product) (int64, error) {
	query := `INSERT INTO products (name, price, category, image_url) VALUES (?, ?, ?, ?)`
	res, err := s.DB.Exec(query, p.Name, p.Price, p.Category, p.ImageURL)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateProduct edits the catalog row only. Historical order items keep
// their price_at_time snapshot untouched.
func (s *Store) UpdateProduct(p *models.Product) error {
	query := `UPDATE products SET name = ?, price = ?, category = ? WHERE id = ?`
	res, err := s.DB.Exec(query, p.Name, p.Price, p.Category, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateProductImage(id int, imageURL string) error {
	_, err := s.DB.Exec(`UPDATE products SET image_url = ? WHERE id = ?`, imageURL, id)
	return err
}

// DeleteProduct mirrors the table-delete guard: products on historical
// order items stay, so receipts and reports keep their joins.
func (s *Store) DeleteProduct(id int) error {
	var refs int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM order_items WHERE product_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}

	res, err := s.DB.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
