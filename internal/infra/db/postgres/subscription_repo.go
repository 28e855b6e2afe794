package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionCols = `id, user_id, plan_id, plan_name, price_monthly, price_yearly, current_period_start, current_period_end, status, created_at`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	yearly := decimal.NullDecimal{}
	if s.PriceYearly != nil {
		yearly = decimal.NullDecimal{Decimal: *s.PriceYearly, Valid: true}
	}
	const q = `
INSERT INTO subscriptions (
  id, user_id, plan_id, plan_name, price_monthly, price_yearly, current_period_start, current_period_end, status, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
) ON CONFLICT (id) DO UPDATE SET
  plan_id=$3, plan_name=$4, price_monthly=$5, price_yearly=$6, current_period_start=$7, current_period_end=$8, status=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.PlanID, s.PlanName, s.PriceMonthly, yearly, s.CurrentPeriodStart, s.CurrentPeriodEnd, s.Status, s.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	q := `SELECT ` + subscriptionCols + ` FROM subscriptions WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	s := &model.Subscription{}
	var yearly decimal.NullDecimal
	if err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &s.PlanName, &s.PriceMonthly, &yearly, &s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.Status, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if yearly.Valid {
		s.PriceYearly = &yearly.Decimal
	}
	return s, nil
}

func (r *subscriptionRepo) CountActive(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `SELECT COUNT(*) FROM subscriptions WHERE status='active';`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
