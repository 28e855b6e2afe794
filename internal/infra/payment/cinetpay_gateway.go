package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*CinetPayGateway)(nil)

// CinetPayGateway adapts the CinetPay hosted-checkout API to the neutral
// gateway port. Only this file knows CinetPay's field names and status codes.
type CinetPayGateway struct {
	siteID        string
	apiKey        string
	webhookSecret string
	checkoutBase  string
}

func NewCinetPayGateway(siteID, apiKey, webhookSecret, checkoutBaseURL string) *CinetPayGateway {
	if checkoutBaseURL == "" {
		checkoutBaseURL = "https://api.cinetpay.com/v2/payment"
	}
	return &CinetPayGateway{
		siteID:        siteID,
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		checkoutBase:  checkoutBaseURL,
	}
}

func (g *CinetPayGateway) Name() string { return "cinetpay" }

func (g *CinetPayGateway) CheckoutURL(ctx context.Context, transactionID string, amount decimal.Decimal, currency string) (string, error) {
	if transactionID == "" {
		return "", fmt.Errorf("%w: transaction id is empty", domain.ErrInvalidArgument)
	}
	v := url.Values{}
	v.Set("transaction_id", transactionID)
	v.Set("amount", amount.String())
	v.Set("currency", currency)
	if g.siteID != "" {
		v.Set("site_id", g.siteID)
	}
	return g.checkoutBase + "?" + v.Encode(), nil
}

// cinetpayNotification is the wire shape CinetPay posts to the webhook.
type cinetpayNotification struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	Metadata      struct {
		OrderID string `json:"order_id"`
	} `json:"metadata"`
}

func (g *CinetPayGateway) DecodeWebhook(body []byte) (*model.GatewayEvent, error) {
	var n cinetpayNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("%w: malformed webhook body", domain.ErrValidation)
	}
	return &model.GatewayEvent{
		TransactionID: n.TransactionID,
		Status:        translateStatus(n.Status),
		RawStatus:     n.Status,
		Amount:        n.Amount,
		Currency:      n.Currency,
		OrderID:       n.Metadata.OrderID,
	}, nil
}

// translateStatus maps CinetPay codes onto the neutral event statuses.
// ACCEPTED is the only paid signal. WAITING_FOR_CUSTOMER and PENDING are
// in-flight states, not outcomes; transitioning on them would block a later
// ACCEPTED behind the no-backward rule. Everything else (REFUSED, CANCELLED,
// EXPIRED, ...) is final-negative.
func translateStatus(code string) model.EventStatus {
	switch code {
	case "ACCEPTED":
		return model.EventAccepted
	case "WAITING_FOR_CUSTOMER", "PENDING":
		return model.EventPending
	default:
		return model.EventDeclined
	}
}
