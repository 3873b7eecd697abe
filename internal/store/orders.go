package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alextreichler/dinedash/internal/billing"
	"github.com/alextreichler/dinedash/internal/models"
	"github.com/google/uuid"
)

const orderColumns = `id, table_id, user_id, status, total_amount, receipt_ref, created_at, closed_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var (
		o      models.Order
		total  sql.NullFloat64
		ref    sql.NullString
		closed sql.NullTime
	)
	if err := row.Scan(&o.ID, &o.TableID, &o.UserID, &o.Status, &total, &ref, &o.CreatedAt, &closed); err != nil {
		return nil, err
	}
	o.TotalAmount = total.Float64
	o.ReceiptRef = ref.String
	if closed.Valid {
		t := closed.Time
		o.ClosedAt = &t
	}
	return &o, nil
}

// GetOpenOrderForTable returns the table's open order, or nil when the
// table is available.
func (s *Store) GetOpenOrderForTable(tableID int) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE table_id = ? AND status = 'open'`
	order, err := scanOrder(s.DB.QueryRow(query, tableID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrder opens a tab for a table. The occupied check and the insert
// run in one transaction; the partial unique index on open orders backstops
// the check.
func (s *Store) CreateOrder(tableID, userID int) (int64, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var open int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM orders WHERE table_id = ? AND status = 'open'`, tableID).Scan(&open); err != nil {
		return 0, err
	}
	if open > 0 {
		return 0, ErrTableOccupied
	}

	res, err := tx.Exec(`INSERT INTO orders (table_id, user_id, status, total_amount, created_at) VALUES (?, ?, 'open', 0, ?)`,
		tableID, userID, time.Now().Format(sqlDateTime))
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return id, tx.Commit()
}

func orderStatus(tx *sql.Tx, orderID int64) (models.OrderStatus, error) {
	var status models.OrderStatus
	err := tx.QueryRow(`SELECT status FROM orders WHERE id = ?`, orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return status, err
}

// AddItem puts quantity of a product on an open order. A product already on
// the order gets its quantity incremented; a new product is inserted with
// price_at_time snapshotted from unitPrice, so later catalog edits never
// touch this order. The "+1" button and a bulk add share this path.
func (s *Store) AddItem(orderID int64, productID, quantity int, unitPrice float64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	status, err := orderStatus(tx, orderID)
	if err != nil {
		return err
	}
	if status != models.OrderOpen {
		return ErrOrderClosed
	}

	var itemID int64
	var existing int
	err = tx.QueryRow(`SELECT id, quantity FROM order_items WHERE order_id = ? AND product_id = ?`, orderID, productID).
		Scan(&itemID, &existing)
	switch err {
	case nil:
		_, err = tx.Exec(`UPDATE order_items SET quantity = ? WHERE id = ?`, existing+quantity, itemID)
	case sql.ErrNoRows:
		_, err = tx.Exec(`INSERT INTO order_items (order_id, product_id, quantity, price_at_time) VALUES (?, ?, ?, ?)`,
			orderID, productID, quantity, unitPrice)
	}
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	return tx.Commit()
}

// SetItemQuantity updates a line in place; a quantity of zero or less
// deletes the row. Quantity is never stored as zero or negative.
func (s *Store) SetItemQuantity(orderItemID int64, quantity int) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status models.OrderStatus
	err = tx.QueryRow(`
		SELECT o.status FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.id = ?`, orderItemID).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != models.OrderOpen {
		return ErrOrderClosed
	}

	if quantity <= 0 {
		_, err = tx.Exec(`DELETE FROM order_items WHERE id = ?`, orderItemID)
	} else {
		_, err = tx.Exec(`UPDATE order_items SET quantity = ? WHERE id = ?`, quantity, orderItemID)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetOrderItems(orderID int64) ([]models.OrderItemDetail, error) {
	query := `
		SELECT oi.id, oi.product_id, p.name, oi.quantity, oi.price_at_time
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.id
	`
	rows, err := s.DB.Query(query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItemDetail
	for rows.Next() {
		var it models.OrderItemDetail
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Quantity, &it.PriceAtTime); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CloseOrder freezes the bill. Totals are recomputed from the current line
// items at the configured tax rate, written together with the closed status
// and timestamp in one transaction. The order is immutable afterwards, and
// the table becomes available again by derivation.
func (s *Store) CloseOrder(orderID int64) (*billing.Totals, error) {
	taxRate, err := s.TaxRate()
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	status, err := orderStatus(tx, orderID)
	if err != nil {
		return nil, err
	}
	if status != models.OrderOpen {
		return nil, ErrOrderClosed
	}

	rows, err := tx.Query(`SELECT quantity, price_at_time FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	var lines []billing.Line
	for rows.Next() {
		var l billing.Line
		if err := rows.Scan(&l.Quantity, &l.Price); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	totals := billing.Compute(lines, taxRate)

	_, err = tx.Exec(`
		UPDATE orders
		SET status = 'closed', total_amount = ?, receipt_ref = ?, closed_at = ?
		WHERE id = ?`, totals.Total, uuid.NewString(), time.Now().Format(sqlDateTime), orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to close order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &totals, nil
}

// GetLastClosedOrderForTable supports receipt reprint; it only ever reads.
func (s *Store) GetLastClosedOrderForTable(tableID int) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE table_id = ? AND status = 'closed'
		ORDER BY closed_at DESC, id DESC LIMIT 1
	`
	order, err := scanOrder(s.DB.QueryRow(query, tableID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Store) GetOrder(orderID int64) (*models.OrderDetail, error) {
	query := `
		SELECT o.id, o.table_id, o.user_id, o.status, o.total_amount, o.receipt_ref,
		       o.created_at, o.closed_at, t.name, u.username
		FROM orders o
		JOIN tables t ON t.id = o.table_id
		JOIN users u ON u.id = o.user_id
		WHERE o.id = ?
	`
	var (
		d      models.OrderDetail
		total  sql.NullFloat64
		ref    sql.NullString
		closed sql.NullTime
	)
	err := s.DB.QueryRow(query, orderID).Scan(&d.ID, &d.TableID, &d.UserID, &d.Status,
		&total, &ref, &d.CreatedAt, &closed, &d.TableName, &d.ServerName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.TotalAmount = total.Float64
	d.ReceiptRef = ref.String
	if closed.Valid {
		t := closed.Time
		d.ClosedAt = &t
	}
	return &d, nil
}
