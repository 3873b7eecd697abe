package store

import (
	"database/sql"
	"time"

	"github.com/alextreichler/dinedash/internal/models"
)

// Reporting queries are read-only aggregations over closed orders. Open
// orders never show up here.

type CategorySales struct {
	Category string
	Quantity int
	Sales    float64
}

type DailySummary struct {
	Day        string
	OrderCount int
	GrossSales float64
	ByCategory []CategorySales
}

type ProductSales struct {
	ProductID int
	Name      string
	Quantity  int
	Sales     float64
}

type StaffPerformance struct {
	UserID     int
	Username   string
	OrderCount int
	Total      float64
	Average    float64
}

func (s *Store) DailySummary(day time.Time) (*DailySummary, error) {
	summary := &DailySummary{Day: day.Format("2006-01-02")}

	err := s.DB.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = 'closed' AND date(closed_at) = ?`, summary.Day).
		Scan(&summary.OrderCount, &summary.GrossSales)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.DB.Query(`
		SELECT p.category, SUM(oi.quantity), SUM(oi.quantity * oi.price_at_time)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status = 'closed' AND date(o.closed_at) = ?
		GROUP BY p.category
		ORDER BY 3 DESC`, summary.Day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c CategorySales
		if err := rows.Scan(&c.Category, &c.Quantity, &c.Sales); err != nil {
			return nil, err
		}
		summary.ByCategory = append(summary.ByCategory, c)
	}
	return summary, rows.Err()
}

func (s *Store) TopProducts(from, to time.Time, limit int) ([]ProductSales, error) {
	rows, err := s.DB.Query(`
		SELECT p.id, p.name, SUM(oi.quantity), SUM(oi.quantity * oi.price_at_time)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status = 'closed' AND o.closed_at BETWEEN ? AND ?
		GROUP BY p.id, p.name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT ?`, from.Format(sqlDateTime), to.Format(sqlDateTime), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []ProductSales
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Sales); err != nil {
			return nil, err
		}
		top = append(top, p)
	}
	return top, rows.Err()
}

func (s *Store) StaffPerformance(from, to time.Time) ([]StaffPerformance, error) {
	rows, err := s.DB.Query(`
		SELECT u.id, u.username, COUNT(o.id), COALESCE(SUM(o.total_amount), 0), COALESCE(AVG(o.total_amount), 0)
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.status = 'closed' AND o.closed_at BETWEEN ? AND ?
		GROUP BY u.id, u.username
		ORDER BY SUM(o.total_amount) DESC`, from.Format(sqlDateTime), to.Format(sqlDateTime))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []StaffPerformance
	for rows.Next() {
		var sp StaffPerformance
		if err := rows.Scan(&sp.UserID, &sp.Username, &sp.OrderCount, &sp.Total, &sp.Average); err != nil {
			return nil, err
		}
		staff = append(staff, sp)
	}
	return staff, rows.Err()
}

// OrderHistory lists closed orders in the range, newest first.
func (s *Store) OrderHistory(from, to time.Time) ([]models.OrderDetail, error) {
	rows, err := s.DB.Query(`
		SELECT o.id, o.table_id, o.user_id, o.status, o.total_amount, o.receipt_ref,
		       o.created_at, o.closed_at, t.name, u.username
		FROM orders o
		JOIN tables t ON t.id = o.table_id
		JOIN users u ON u.id = o.user_id
		WHERE o.status = 'closed' AND o.closed_at BETWEEN ? AND ?
		ORDER BY o.closed_at DESC, o.id DESC`, from.Format(sqlDateTime), to.Format(sqlDateTime))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.OrderDetail
	for rows.Next() {
		var (
			d      models.OrderDetail
			total  sql.NullFloat64
			ref    sql.NullString
			closed sql.NullTime
		)
		if err := rows.Scan(&d.ID, &d.TableID, &d.UserID, &d.Status, &total, &ref,
			&d.CreatedAt, &closed, &d.TableName, &d.ServerName); err != nil {
			return nil, err
		}
		d.TotalAmount = total.Float64
		d.ReceiptRef = ref.String
		if closed.Valid {
			t := closed.Time
			d.ClosedAt = &t
		}
		history = append(history, d)
	}
	return history, rows.Err()
}
