package store

import (
	"database/sql"

	"github.com/alextreichler/dinedash/internal/models"
)

// ListTables returns every table with its derived occupancy. Status is
// recomputed on each call from the open-order set; it is never stored.
func (s *Store) ListTables() ([]models.TableWithStatus, error) {
	query := `
		SELECT t.id, t.name, t.capacity,
		       CASE WHEN o.id IS NOT NULL THEN 'occupied' ELSE 'available' END AS status
		FROM tables t
		LEFT JOIN orders o ON o.table_id = t.id AND o.status = 'open'
		ORDER BY t.name
	`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []models.TableWithStatus
	for rows.Next() {
		var t models.TableWithStatus
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &t.Status); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *Store) GetTable(id int) (*models.Table, error) {
	var t models.Table
	err := s.DB.QueryRow(`SELECT id, name, capacity FROM tables WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Capacity)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateTable(name string, capacity int) (int64, error) {
	res, err := s.DB.Exec(`INSERT INTO tables (name, capacity) VALUES (?, ?)`, name, capacity)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) UpdateTable(t *models.Table) error {
	res, err := s.DB.Exec(`UPDATE tables SET name = ?, capacity = ? WHERE id = ?`, t.Name, t.Capacity, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTable is a checked precondition, not a constraint error: a table
// with an open order reports ErrTableOccupied, and one referenced by past
// orders reports ErrInUse.
func (s *Store) DeleteTable(id int) error {
	var open, total int
	err := s.DB.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END), 0)
		FROM orders WHERE table_id = ?`, id).Scan(&total, &open)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrTableOccupied
	}
	if total > 0 {
		return ErrInUse
	}

	res, err := s.DB.Exec(`DELETE FROM tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
