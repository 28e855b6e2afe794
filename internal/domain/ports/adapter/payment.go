package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	"shop-billing-service/internal/domain/model"
)

// PaymentGateway abstracts the hosted-checkout provider. The reconciliation
// state machine only ever consumes the neutral model.GatewayEvent this
// adapter produces, so alternate gateways plug in without touching it.
type PaymentGateway interface {
	Name() string
	// CheckoutURL returns the hosted-checkout reference the payer is
	// redirected to for the given transaction.
	CheckoutURL(ctx context.Context, transactionID string, amount decimal.Decimal, currency string) (string, error)
	// DecodeWebhook parses a raw notification body into the neutral event
	// shape. Returns domain.ErrValidation for malformed payloads.
	DecodeWebhook(body []byte) (*model.GatewayEvent, error)
	// VerifySignature checks the provider's webhook signature header against
	// the raw body. Always true when no secret is configured.
	VerifySignature(signature string, body []byte) bool
}
