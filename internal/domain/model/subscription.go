package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillingInterval string

const (
	IntervalMonth BillingInterval = "month"
	IntervalYear  BillingInterval = "year"
)

// Valid reports whether i is one of the recognized billing intervals.
func (i BillingInterval) Valid() bool {
	return i == IntervalMonth || i == IntervalYear
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive SubscriptionStatus = "active"
	// Renewal/cancellation states exist in the store but are driven by a
	// separate lifecycle flow, not by activation.
)

// Subscription is one subscribe action: a plan, its derived pricing and the
// current billing period.
type Subscription struct {
	ID                 string // UUID
	UserID             string
	PlanID             string
	PlanName           string
	PriceMonthly       decimal.Decimal
	PriceYearly        *decimal.Decimal // PriceMonthly x 12 for yearly interval, nil otherwise
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	Status             SubscriptionStatus
	CreatedAt          time.Time
}
