package repository

import (
	"context"
	"time"

	"shop-billing-service/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByTransactionID(ctx context.Context, tx Tx, transactionID string) (*model.Payment, error)
	// UpdateStatusIfPending atomically transitions the payment identified by
	// transactionID to status, gated on the row still being 'pending'.
	// Returns false with nil error when zero rows matched, i.e. another
	// delivery already moved the payment to a terminal state.
	UpdateStatusIfPending(ctx context.Context, tx Tx, transactionID string, status model.PaymentStatus, paidAt *time.Time) (bool, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)
	SumCompletedByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
