// File: internal/usecase/reconcile_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/domain/ports/repository"
	"shop-billing-service/internal/infra/logging"
	"shop-billing-service/internal/infra/metrics"
)

// Compile-time check
var _ ReconcileUseCase = (*reconcileUC)(nil)

// ReconcileOutcome names what a webhook delivery actually did.
type ReconcileOutcome string

const (
	OutcomeCompleted         ReconcileOutcome = "completed"          // payment transitioned to completed
	OutcomeFailed            ReconcileOutcome = "failed"             // payment transitioned to failed
	OutcomeAlreadyReconciled ReconcileOutcome = "already_reconciled" // duplicate delivery, payment already terminal
	OutcomeIgnored           ReconcileOutcome = "ignored"            // gateway status not final yet
)

type ReconcileUseCase interface {
	// Reconcile applies one gateway event to the payment state machine:
	//
	//	pending --accepted--> completed --> order marked paid
	//	pending --declined--> failed
	//	completed/failed --any further event--> no-op
	//
	// Safe to invoke any number of times for the same transaction id: the
	// payment transition is a conditional update gated on status='pending',
	// so exactly one delivery wins and only the winner propagates the order
	// update. Returns domain.ErrPartialPropagation (with the payment already
	// completed) when the order update could not be applied; the task is
	// queued for retry and must not be re-driven by gateway redelivery.
	Reconcile(ctx context.Context, ev *model.GatewayEvent) (ReconcileOutcome, error)
}

type reconcileUC struct {
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	queue    repository.PropagationQueue
	retry    retryPolicy
	log      *zerolog.Logger
}

func NewReconcileUseCase(
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	queue repository.PropagationQueue,
	logger *zerolog.Logger,
) *reconcileUC {
	return &reconcileUC{
		payments: payments,
		orders:   orders,
		queue:    queue,
		retry:    defaultRetryPolicy(),
		log:      logger,
	}
}

func (u *reconcileUC) Reconcile(ctx context.Context, ev *model.GatewayEvent) (ReconcileOutcome, error) {
	defer logging.TraceDuration(u.log, "ReconcileUC.Reconcile")()
	if ev == nil || ev.TransactionID == "" {
		return "", fmt.Errorf("%w: transaction_id is required", domain.ErrValidation)
	}
	if ev.Status == model.EventAccepted && ev.OrderID == "" {
		return "", fmt.Errorf("%w: metadata.order_id is required for an accepted event", domain.ErrValidation)
	}

	log := u.log.With().Str("transaction_id", ev.TransactionID).Str("gateway_status", ev.RawStatus).Logger()

	p, err := u.payments.FindByTransactionID(ctx, nil, ev.TransactionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Distinct from a duplicate delivery: nothing here matches the
			// gateway's view of the world, which is worth alerting on.
			metrics.IncUnknownTransaction()
			log.Warn().Msg("webhook for unknown transaction")
			return "", domain.ErrUnknownTransaction
		}
		return "", err
	}

	switch ev.Status {
	case model.EventPending:
		// Not a final outcome; the gateway will deliver again.
		log.Debug().Msg("non-final gateway status, nothing to apply")
		return OutcomeIgnored, nil

	case model.EventAccepted:
		now := time.Now()
		var applied bool
		err := u.retry.do(ctx, func() error {
			var err error
			applied, err = u.payments.UpdateStatusIfPending(ctx, nil, ev.TransactionID, model.PaymentStatusCompleted, &now)
			return err
		})
		if err != nil {
			return "", err
		}
		if !applied {
			// Another delivery won the conditional update. Do NOT re-apply
			// the order mutation; downstream side effects may not be
			// idempotent.
			log.Debug().Msg("duplicate delivery, payment already terminal")
			return OutcomeAlreadyReconciled, nil
		}

		metrics.IncPayment(string(model.PaymentStatusCompleted))
		metrics.AddPaymentRevenue(p.Currency, p.Amount.InexactFloat64())
		log.Info().Str("payment_id", p.ID).Msg("payment completed")

		if ev.OrderID != p.OrderID {
			log.Warn().Str("event_order_id", ev.OrderID).Str("payment_order_id", p.OrderID).
				Msg("webhook order id differs from payment record")
		}
		return OutcomeCompleted, u.propagateOrder(ctx, p, ev.OrderID, &log)

	default: // declined
		var applied bool
		err := u.retry.do(ctx, func() error {
			var err error
			applied, err = u.payments.UpdateStatusIfPending(ctx, nil, ev.TransactionID, model.PaymentStatusFailed, nil)
			return err
		})
		if err != nil {
			return "", err
		}
		if !applied {
			log.Debug().Msg("duplicate delivery, payment already terminal")
			return OutcomeAlreadyReconciled, nil
		}
		metrics.IncPayment(string(model.PaymentStatusFailed))
		log.Info().Str("payment_id", p.ID).Msg("payment failed")
		return OutcomeFailed, nil
	}
}

// propagateOrder applies the second phase of the two-phase propagation: the
// conditional order update. The payment is already completed at this point;
// on failure the task is queued for the propagation worker instead of being
// dropped, and ErrPartialPropagation is surfaced to the caller.
func (u *reconcileUC) propagateOrder(ctx context.Context, p *model.Payment, orderID string, log *zerolog.Logger) error {
	err := u.retry.do(ctx, func() error {
		_, err := u.orders.MarkPaid(ctx, nil, orderID)
		return err
	})
	if err == nil {
		log.Info().Str("order_id", orderID).Msg("order marked paid")
		return nil
	}

	task := repository.PropagationTask{
		PaymentID:     p.ID,
		TransactionID: p.TransactionID,
		OrderID:       orderID,
		EnqueuedAt:    time.Now(),
	}
	if qErr := u.queue.Enqueue(ctx, task); qErr != nil {
		// Both phases and the queue failed; the inconsistency is loud in the
		// logs and the error still reaches the caller.
		log.Error().Err(qErr).Str("order_id", orderID).Msg("failed to queue order propagation")
	} else {
		log.Warn().Err(err).Str("order_id", orderID).Msg("order update deferred to propagation queue")
	}
	return fmt.Errorf("%w: order %s: %v", domain.ErrPartialPropagation, orderID, err)
}
