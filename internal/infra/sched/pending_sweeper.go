package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shop-billing-service/internal/domain/ports/repository"
)

// PendingSweeper periodically surfaces payments stuck in 'pending' beyond a
// cutoff. A payment the gateway never reported on stays pending forever; the
// sweeper makes that visible instead of letting it rot silently. It does not
// transition anything: only the gateway decides a payment's outcome.
type PendingSweeper struct {
	payments   repository.PaymentRepository
	interval   time.Duration
	staleAfter time.Duration
	log        *zerolog.Logger
}

func NewPendingSweeper(payments repository.PaymentRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PendingSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 30 * time.Minute
	}
	return &PendingSweeper{payments: payments, interval: interval, staleAfter: staleAfter, log: logger}
}

func (w *PendingSweeper) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PendingSweeper) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	stale, err := w.payments.ListPendingOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("pending-sweeper: list failed")
		return
	}
	for _, p := range stale {
		w.log.Warn().
			Str("payment_id", p.ID).
			Str("transaction_id", p.TransactionID).
			Str("order_id", p.OrderID).
			Time("created_at", p.CreatedAt).
			Msg("pending-sweeper: payment stale, no gateway notification received")
	}
}
