package model

import "github.com/shopspring/decimal"

// EventStatus is the gateway-neutral classification of a webhook delivery.
// Gateway adapters translate provider status codes into one of these so the
// reconciliation state machine never sees provider-specific fields.
type EventStatus string

const (
	EventAccepted EventStatus = "accepted" // charge confirmed by the gateway
	EventDeclined EventStatus = "declined" // refused, cancelled, or otherwise final-negative
	EventPending  EventStatus = "pending"  // gateway still processing; not a final outcome
)

// GatewayEvent is one asynchronous status notification from a payment
// gateway, already normalized by the gateway adapter.
type GatewayEvent struct {
	TransactionID string
	Status        EventStatus
	RawStatus     string // provider code as delivered, kept for logs
	Amount        decimal.Decimal
	Currency      string
	OrderID       string // linked order, required when Status is accepted
}
