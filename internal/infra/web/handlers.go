package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/infra/logging"
	"shop-billing-service/internal/infra/metrics"
	"shop-billing-service/internal/usecase"
)

const maxWebhookBody = 1 << 20 // 1 MiB

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// handleWebhook receives asynchronous gateway notifications. Response codes
// follow the gateway's retry semantics: business outcomes (reconciled,
// duplicate, unknown transaction) are acknowledged with 200 so the gateway
// stops redelivering; only transient internal failures return 5xx, which the
// gateway treats as "redeliver" — safe, because reconciliation is idempotent.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if !s.gateway.VerifySignature(r.Header.Get("x-token"), body) {
		s.log.Warn().Msg("webhook signature mismatch")
		writeError(w, http.StatusForbidden, "invalid signature")
		return
	}

	ev, err := s.gateway.DecodeWebhook(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed webhook payload")
		return
	}
	ctx = logging.WithTransactionID(ctx, ev.TransactionID)
	if ev.OrderID != "" {
		ctx = logging.WithOrderID(ctx, ev.OrderID)
	}
	log := logging.With(ctx, s.log)

	outcome, err := s.reconcileUC.Reconcile(ctx, ev)
	switch {
	case err == nil:
		metrics.IncWebhookEvent(string(outcome))
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	case errors.Is(err, domain.ErrValidation):
		metrics.IncWebhookEvent("validation_error")
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnknownTransaction):
		// Logged and counted inside the use case; redelivery would not help.
		metrics.IncWebhookEvent("unknown_transaction")
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	case errors.Is(err, domain.ErrPartialPropagation):
		// Payment is completed; the order update is queued on our side.
		metrics.IncWebhookEvent("partial_propagation")
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	default:
		metrics.IncWebhookEvent("internal_error")
		log.Error().Err(err).Msg("webhook processing failed")
		writeError(w, http.StatusInternalServerError, "webhook processing failed")
	}
}

type initiatePaymentRequest struct {
	OrderID       string          `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CustomerEmail string          `json:"customer_email"`
	CustomerName  string          `json:"customer_name"`
}

func (s *Server) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req initiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, payURL, err := s.paymentUC.Initiate(ctx, usecase.InitiateInput{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("order_id", req.OrderID).Msg("payment initiation failed")
		writeError(w, http.StatusInternalServerError, "payment initiation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payment_id":     p.ID,
		"transaction_id": p.TransactionID,
		"payment_url":    payURL,
		"success":        true,
	})
}

type createSubscriptionRequest struct {
	UserID       string          `json:"user_id"`
	PlanID       string          `json:"plan_id"`
	PlanName     string          `json:"plan_name"`
	PriceMonthly decimal.Decimal `json:"price_monthly"`
	Interval     string          `json:"interval"`
}

type subscriptionResponse struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"user_id"`
	PlanID             string           `json:"plan_id"`
	PlanName           string           `json:"plan_name"`
	PriceMonthly       decimal.Decimal  `json:"price_monthly"`
	PriceYearly        *decimal.Decimal `json:"price_yearly"`
	CurrentPeriodStart time.Time        `json:"current_period_start"`
	CurrentPeriodEnd   time.Time        `json:"current_period_end"`
	Status             string           `json:"status"`
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := s.subUC.Activate(ctx, usecase.ActivateInput{
		UserID:       req.UserID,
		PlanID:       req.PlanID,
		PlanName:     req.PlanName,
		PriceMonthly: req.PriceMonthly,
		Interval:     model.BillingInterval(req.Interval),
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("user_id", req.UserID).Msg("subscription creation failed")
		writeError(w, http.StatusInternalServerError, "subscription creation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscription": subscriptionResponse{
			ID:                 sub.ID,
			UserID:             sub.UserID,
			PlanID:             sub.PlanID,
			PlanName:           sub.PlanName,
			PriceMonthly:       sub.PriceMonthly,
			PriceYearly:        sub.PriceYearly,
			CurrentPeriodStart: sub.CurrentPeriodStart,
			CurrentPeriodEnd:   sub.CurrentPeriodEnd,
			Status:             string(sub.Status),
		},
		"success": true,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := s.statsUC.Totals(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("stats query failed")
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
