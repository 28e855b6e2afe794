package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shop-billing-service/internal/domain/ports/repository"
	"shop-billing-service/internal/infra/metrics"
	"shop-billing-service/internal/infra/worker"
)

// PropagationWorker drains the order-propagation queue: payments that reached
// 'completed' while their order update failed. Each task re-applies the
// conditional order update; a task that exhausts maxAttempts is parked on the
// dead-letter list where an operator can see it. Re-applying is safe at any
// multiplicity because the order update is conditional on status <> 'paid'.
type PropagationWorker struct {
	queue       repository.PropagationQueue
	orders      repository.OrderRepository
	pool        *worker.Pool
	interval    time.Duration
	maxAttempts int
	batchSize   int
	log         *zerolog.Logger
}

func NewPropagationWorker(
	queue repository.PropagationQueue,
	orders repository.OrderRepository,
	pool *worker.Pool,
	interval time.Duration,
	maxAttempts, batchSize int,
	logger *zerolog.Logger,
) *PropagationWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &PropagationWorker{
		queue:       queue,
		orders:      orders,
		pool:        pool,
		interval:    interval,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		log:         logger,
	}
}

func (w *PropagationWorker) Start(ctx context.Context) {
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

func (w *PropagationWorker) tick(ctx context.Context) {
	tasks, err := w.queue.PopBatch(ctx, w.batchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("propagation: pop batch failed")
		return
	}
	for _, task := range tasks {
		task := task
		if err := w.pool.Submit(func(ctx context.Context) error {
			w.process(ctx, task)
			return nil
		}); err != nil {
			// Pool saturated; requeue and pick it up next tick.
			if qErr := w.queue.Enqueue(ctx, task); qErr != nil {
				w.log.Error().Err(qErr).Str("order_id", task.OrderID).Msg("propagation: requeue failed")
			}
		}
	}
	w.reportDepth(ctx)
}

func (w *PropagationWorker) process(ctx context.Context, task repository.PropagationTask) {
	metrics.IncPropagationRetry()
	_, err := w.orders.MarkPaid(ctx, nil, task.OrderID)
	if err == nil {
		w.log.Info().
			Str("order_id", task.OrderID).
			Str("transaction_id", task.TransactionID).
			Int("attempts", task.Attempts+1).
			Msg("propagation: order marked paid")
		return
	}

	task.Attempts++
	if task.Attempts >= w.maxAttempts {
		metrics.IncPropagationParked()
		w.log.Error().Err(err).
			Str("order_id", task.OrderID).
			Str("payment_id", task.PaymentID).
			Int("attempts", task.Attempts).
			Msg("propagation: giving up, task parked for operator")
		if pErr := w.queue.Park(ctx, task); pErr != nil {
			w.log.Error().Err(pErr).Str("order_id", task.OrderID).Msg("propagation: park failed")
		}
		return
	}
	if qErr := w.queue.Enqueue(ctx, task); qErr != nil {
		w.log.Error().Err(qErr).Str("order_id", task.OrderID).Msg("propagation: requeue failed")
	}
}

func (w *PropagationWorker) reportDepth(ctx context.Context) {
	if n, err := w.queue.Len(ctx); err == nil {
		metrics.SetPropagationQueueDepth(float64(n))
	}
	if n, err := w.queue.ParkedLen(ctx); err == nil {
		metrics.SetPropagationParkedDepth(float64(n))
	}
}
