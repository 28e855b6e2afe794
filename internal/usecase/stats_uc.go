// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"

	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/domain/ports/repository"
)

var _ StatsUseCase = (*statsUC)(nil)

// Stats backs the admin dashboard: revenue per period plus headline counts.
type Stats struct {
	RevenueWeek         int64 `json:"revenue_week"`
	RevenueMonth        int64 `json:"revenue_month"`
	RevenueYear         int64 `json:"revenue_year"`
	PaidOrders          int   `json:"paid_orders"`
	ActiveSubscriptions int   `json:"active_subscriptions"`
}

type StatsUseCase interface {
	Totals(ctx context.Context) (*Stats, error)
}

type statsUC struct {
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	subs     repository.SubscriptionRepository
}

func NewStatsUseCase(payments repository.PaymentRepository, orders repository.OrderRepository, subs repository.SubscriptionRepository) *statsUC {
	return &statsUC{payments: payments, orders: orders, subs: subs}
}

func (u *statsUC) Totals(ctx context.Context) (*Stats, error) {
	week, err := u.payments.SumCompletedByPeriod(ctx, nil, "week")
	if err != nil {
		return nil, err
	}
	month, err := u.payments.SumCompletedByPeriod(ctx, nil, "month")
	if err != nil {
		return nil, err
	}
	year, err := u.payments.SumCompletedByPeriod(ctx, nil, "year")
	if err != nil {
		return nil, err
	}
	paid, err := u.orders.CountByStatus(ctx, nil, model.OrderStatusPaid)
	if err != nil {
		return nil, err
	}
	active, err := u.subs.CountActive(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Stats{
		RevenueWeek:         week,
		RevenueMonth:        month,
		RevenueYear:         year,
		PaidOrders:          paid,
		ActiveSubscriptions: active,
	}, nil
}
