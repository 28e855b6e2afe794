package repository

import (
	"context"

	"shop-billing-service/internal/domain/model"
)

type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	CountActive(ctx context.Context, tx Tx) (int, error)
}
