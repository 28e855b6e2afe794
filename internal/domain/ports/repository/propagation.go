package repository

import (
	"context"
	"time"
)

// PropagationTask is one deferred order update: the payment has reached
// 'completed' but the order row could not yet be marked paid.
type PropagationTask struct {
	PaymentID     string    `json:"payment_id"`
	TransactionID string    `json:"transaction_id"`
	OrderID       string    `json:"order_id"`
	Attempts      int       `json:"attempts"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// PropagationQueue holds order updates awaiting retry. Entries that exhaust
// their attempts are parked rather than dropped so an operator can see the
// Payment/Order inconsistency.
type PropagationQueue interface {
	Enqueue(ctx context.Context, task PropagationTask) error
	// PopBatch removes and returns up to limit tasks; empty slice when none.
	PopBatch(ctx context.Context, limit int) ([]PropagationTask, error)
	// Park moves a task to the dead-letter list for operator inspection.
	Park(ctx context.Context, task PropagationTask) error
	Len(ctx context.Context) (int64, error)
	ParkedLen(ctx context.Context) (int64, error)
}
