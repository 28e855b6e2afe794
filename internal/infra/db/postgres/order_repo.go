package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

// orderRepo issues the single bounded mutation billing is allowed to apply
// to orders; everything else about the orders table is owned by the catalog
// service.
type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

func (r *orderRepo) MarkPaid(ctx context.Context, tx repository.Tx, orderID string) (bool, error) {
	// Conditional on not-yet-paid so the transition never re-applies and the
	// order never reverts; a redundant call on a paid order is a no-op.
	const q = `UPDATE orders SET status='paid', updated_at=NOW() WHERE id=$1 AND status <> 'paid';`
	cmd, err := execSQL(ctx, r.pool, tx, q, orderID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	if cmd.RowsAffected() >= 1 {
		return true, nil
	}
	// Zero rows: either already paid (fine) or the order is missing
	// (gateway/store desync, surfaced as ErrNotFound).
	if _, err := r.GetStatus(ctx, tx, orderID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *orderRepo) GetStatus(ctx context.Context, tx repository.Tx, orderID string) (model.OrderStatus, error) {
	const q = `SELECT status FROM orders WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, orderID)
	if err != nil {
		return "", err
	}
	var status model.OrderStatus
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", domain.ErrReadDatabaseRow
	}
	return status, nil
}

func (r *orderRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.OrderStatus) (int, error) {
	const q = `SELECT COUNT(*) FROM orders WHERE status=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, status)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
