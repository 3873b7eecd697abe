package store

import "errors"

// Business-rule violations reported to callers. Storage failures are
// returned wrapped and are not matched against these.
var (
	ErrNotFound      = errors.New("row not found")
	ErrTableOccupied = errors.New("table already has an open order")
	ErrOrderClosed   = errors.New("order is closed")
	ErrEmptyOrder    = errors.New("order has no items")
	ErrInUse         = errors.New("row is referenced by existing orders")
)
