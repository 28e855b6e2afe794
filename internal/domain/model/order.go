package model

import "time"

type OrderStatus string

const (
	OrderStatusUnpaid OrderStatus = "unpaid"
	OrderStatusPaid   OrderStatus = "paid"
	// Orders carry further states (shipped, delivered, ...) owned by the
	// catalog subsystem; billing only ever applies unpaid -> paid.
)

// Order is owned by the catalog subsystem. Billing holds a reduced view and
// issues a single conditional mutation to it when a payment completes.
type Order struct {
	ID        string
	Status    OrderStatus
	UpdatedAt time.Time
}
