package store

import (
	"database/sql"

	"github.com/alextreichler/dinedash/internal/models"
)

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	query := `SELECT id, username, password, role, created_at FROM users WHERE username = ?`
	row := s.DB.QueryRow(query, username)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Role, &user.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUser(id int) (*models.User, error) {
	query := `SELECT id, username, password, role, created_at FROM users WHERE id = ?`
	row := s.DB.QueryRow(query, id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Role, &user.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) ListUsers() ([]models.User, error) {
	query := `SELECT id, username, password, role, created_at FROM users ORDER BY username`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) CreateUser(username, hashedPassword string, role models.Role) (int64, error) {
	query := `INSERT INTO users (username, password, role) VALUES (?, ?, ?)`
	res, err := s.DB.Exec(query, username, hashedPassword, role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteUser refuses to remove a server who appears on historical orders,
// so reporting joins never dangle.
func (s *Store) DeleteUser(id int) error {
	var refs int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM orders WHERE user_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}

	res, err := s.DB.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
