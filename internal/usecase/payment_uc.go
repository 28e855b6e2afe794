// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/domain/ports/adapter"
	"shop-billing-service/internal/domain/ports/repository"
	"shop-billing-service/internal/infra/logging"
	"shop-billing-service/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type InitiateInput struct {
	OrderID       string
	Amount        decimal.Decimal
	Currency      string // defaults to the configured currency when empty
	CustomerEmail string
	CustomerName  string
}

type PaymentUseCase interface {
	// Initiate creates a pending payment for an order and returns it along
	// with the gateway checkout URL the payer is redirected to. Each call
	// mints a fresh transaction id, so retrying a failed initiation is safe.
	Initiate(ctx context.Context, in InitiateInput) (*model.Payment, string, error)
}

type paymentUC struct {
	payments        repository.PaymentRepository
	gateway         adapter.PaymentGateway
	defaultCurrency string
	retry           retryPolicy
	log             *zerolog.Logger
}

func NewPaymentUseCase(payments repository.PaymentRepository, gateway adapter.PaymentGateway, defaultCurrency string, logger *zerolog.Logger) *paymentUC {
	if defaultCurrency == "" {
		defaultCurrency = "XOF"
	}
	return &paymentUC{
		payments:        payments,
		gateway:         gateway,
		defaultCurrency: defaultCurrency,
		retry:           defaultRetryPolicy(),
		log:             logger,
	}
}

// newTransactionID mints a merchant-unique transaction id. ULIDs are unique
// across time (48-bit timestamp + monotonic entropy), which is what keeps one
// payment from ever satisfying two orders.
func newTransactionID() string {
	return "cp_" + strings.ToLower(ulid.Make().String())
}

func (u *paymentUC) Initiate(ctx context.Context, in InitiateInput) (*model.Payment, string, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.Initiate")()
	if in.OrderID == "" {
		return nil, "", fmt.Errorf("%w: order_id is required", domain.ErrValidation)
	}
	if !in.Amount.IsPositive() {
		return nil, "", fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if in.CustomerEmail == "" {
		return nil, "", fmt.Errorf("%w: customer_email is required", domain.ErrValidation)
	}
	currency := in.Currency
	if currency == "" {
		currency = u.defaultCurrency
	}

	transactionID := newTransactionID()
	payURL, err := u.gateway.CheckoutURL(ctx, transactionID, in.Amount, currency)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	p := &model.Payment{
		ID:            uuid.NewString(),
		OrderID:       in.OrderID,
		TransactionID: transactionID,
		Amount:        in.Amount,
		Currency:      currency,
		Method:        "mobile_money",
		Status:        model.PaymentStatusPending,
		Metadata: map[string]string{
			"order_id":       in.OrderID,
			"customer_email": in.CustomerEmail,
			"customer_name":  in.CustomerName,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.retry.do(ctx, func() error { return u.payments.Save(ctx, nil, p) }); err != nil {
		return nil, "", err
	}

	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().
		Str("payment_id", p.ID).
		Str("order_id", p.OrderID).
		Str("transaction_id", p.TransactionID).
		Str("gateway", u.gateway.Name()).
		Msg("payment initiated")
	return p, payURL, nil
}
