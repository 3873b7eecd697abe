package models

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleServer Role = "Server"
)

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Table struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// TableStatus is derived from the open-order set on every read, never stored.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
)

type TableWithStatus struct {
	Table
	Status TableStatus `json:"status"`
}

type Product struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderStatus string

const (
	OrderOpen   OrderStatus = "open"
	OrderClosed OrderStatus = "closed"
)

type Order struct {
	ID          int64       `json:"id"`
	TableID     int         `json:"table_id"`
	UserID      int         `json:"user_id"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"` // 0 while open, frozen at close
	ReceiptRef  string      `json:"receipt_ref"`  // assigned at close
	CreatedAt   time.Time   `json:"created_at"`
	ClosedAt    *time.Time  `json:"closed_at"`
}

// OrderDetail carries the table and server names alongside the order row,
// for receipts and order history listings.
type OrderDetail struct {
	Order
	TableName  string `json:"table_name"`
	ServerName string `json:"server_name"`
}

type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int     `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

// OrderItemDetail joins the product name in for display and receipts.
type OrderItemDetail struct {
	ID          int64   `json:"id"`
	ProductID   int     `json:"product_id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}
