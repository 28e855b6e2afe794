package repository

import (
	"context"

	"shop-billing-service/internal/domain/model"
)

type OrderRepository interface {
	// MarkPaid conditionally moves the order to 'paid'. Returns false with
	// nil error when the order is already paid (a redundant update is
	// harmless) and ErrNotFound when no such order exists.
	MarkPaid(ctx context.Context, tx Tx, orderID string) (bool, error)
	GetStatus(ctx context.Context, tx Tx, orderID string) (model.OrderStatus, error)
	CountByStatus(ctx context.Context, tx Tx, status model.OrderStatus) (int, error)
}
