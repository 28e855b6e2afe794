// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/domain/ports/repository"
	"shop-billing-service/internal/infra/logging"
	"shop-billing-service/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type ActivateInput struct {
	UserID       string
	PlanID       string
	PlanName     string
	PriceMonthly decimal.Decimal
	Interval     model.BillingInterval
}

type SubscriptionUseCase interface {
	// Activate creates one active subscription with its computed billing
	// period and derived yearly price. Collecting the subscription charge is
	// a separate flow and deliberately not routed through the order-payment
	// reconciler.
	Activate(ctx context.Context, in ActivateInput) (*model.Subscription, error)
}

type subscriptionUC struct {
	subs  repository.SubscriptionRepository
	retry retryPolicy
	log   *zerolog.Logger
	now   func() time.Time
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{subs: subs, retry: defaultRetryPolicy(), log: logger, now: time.Now}
}

func (uc *subscriptionUC) Activate(ctx context.Context, in ActivateInput) (*model.Subscription, error) {
	defer logging.TraceDuration(uc.log, "SubscriptionUC.Activate")()
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	if in.PlanID == "" {
		return nil, fmt.Errorf("%w: plan_id is required", domain.ErrValidation)
	}
	if !in.PriceMonthly.IsPositive() {
		return nil, fmt.Errorf("%w: price_monthly must be positive", domain.ErrValidation)
	}

	start, end, err := ComputePeriod(uc.now(), in.Interval)
	if err != nil {
		return nil, err
	}

	var yearly *decimal.Decimal
	if in.Interval == model.IntervalYear {
		y := in.PriceMonthly.Mul(decimal.NewFromInt(12))
		yearly = &y
	}

	s := &model.Subscription{
		ID:                 uuid.NewString(),
		UserID:             in.UserID,
		PlanID:             in.PlanID,
		PlanName:           in.PlanName,
		PriceMonthly:       in.PriceMonthly,
		PriceYearly:        yearly,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   end,
		Status:             model.SubscriptionStatusActive,
		CreatedAt:          start,
	}
	if err := uc.retry.do(ctx, func() error { return uc.subs.Save(ctx, nil, s) }); err != nil {
		return nil, err
	}

	metrics.IncSubscriptionActivation(string(in.Interval))
	uc.log.Info().
		Str("subscription_id", s.ID).
		Str("user_id", s.UserID).
		Str("plan_id", s.PlanID).
		Str("interval", string(in.Interval)).
		Time("period_end", end).
		Msg("subscription activated")
	return s, nil
}
