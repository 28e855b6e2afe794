package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // awaiting gateway notification
	PaymentStatusCompleted PaymentStatus = "completed" // gateway accepted the charge
	PaymentStatusFailed    PaymentStatus = "failed"    // gateway refused/cancelled the charge
)

// Terminal reports whether s admits no further transition.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// Payment records one checkout attempt against an order. Rows are never
// deleted; they form the audit trail for the order's payment history.
type Payment struct {
	ID            string // UUID
	OrderID       string
	TransactionID string // gateway-facing id, unique across all time; idempotency key for reconciliation
	Amount        decimal.Decimal
	Currency      string // ISO-ish code, e.g. "XOF"
	Method        string // e.g. "mobile_money"
	Status        PaymentStatus
	Metadata      map[string]string // customer contact info and order linkage (JSONB in DB)
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PaidAt        *time.Time // set when completed
}
