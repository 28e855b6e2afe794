//go:build !integration

package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
)

func TestTranslateStatus(t *testing.T) {
	cases := []struct {
		code string
		want model.EventStatus
	}{
		{"ACCEPTED", model.EventAccepted},
		{"WAITING_FOR_CUSTOMER", model.EventPending},
		{"PENDING", model.EventPending},
		{"REFUSED", model.EventDeclined},
		{"CANCELLED", model.EventDeclined},
		{"EXPIRED", model.EventDeclined},
		{"SOMETHING_NEW", model.EventDeclined},
		{"", model.EventDeclined},
	}
	for _, tc := range cases {
		if got := translateStatus(tc.code); got != tc.want {
			t.Errorf("translateStatus(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestDecodeWebhook(t *testing.T) {
	g := NewCinetPayGateway("site-1", "key", "", "")

	t.Run("decodes a full notification", func(t *testing.T) {
		body := []byte(`{
			"transaction_id": "cp_01abc",
			"amount": "45000",
			"currency": "XOF",
			"status": "ACCEPTED",
			"metadata": {"order_id": "O42"}
		}`)
		ev, err := g.DecodeWebhook(body)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ev.TransactionID != "cp_01abc" || ev.OrderID != "O42" {
			t.Errorf("ids not carried through: %+v", ev)
		}
		if ev.Status != model.EventAccepted || ev.RawStatus != "ACCEPTED" {
			t.Errorf("status mapping: got %q raw %q", ev.Status, ev.RawStatus)
		}
		if !ev.Amount.Equal(decimal.NewFromInt(45000)) {
			t.Errorf("amount: got %v", ev.Amount)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		if _, err := g.DecodeWebhook([]byte(`{"transaction_id":`)); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("tolerates a missing metadata block", func(t *testing.T) {
		ev, err := g.DecodeWebhook([]byte(`{"transaction_id":"cp_x","status":"REFUSED"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ev.OrderID != "" || ev.Status != model.EventDeclined {
			t.Errorf("unexpected event: %+v", ev)
		}
	})
}

func TestCheckoutURL(t *testing.T) {
	ctx := context.Background()

	t.Run("builds a parseable URL with the transaction parameters", func(t *testing.T) {
		g := NewCinetPayGateway("site-1", "key", "", "")
		raw, err := g.CheckoutURL(ctx, "cp_01abc", decimal.NewFromInt(45000), "XOF")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("unparseable URL %q: %v", raw, err)
		}
		q := u.Query()
		if q.Get("transaction_id") != "cp_01abc" || q.Get("amount") != "45000" || q.Get("currency") != "XOF" {
			t.Errorf("missing query params in %q", raw)
		}
		if q.Get("site_id") != "site-1" {
			t.Errorf("site_id not included in %q", raw)
		}
		if !strings.HasPrefix(raw, "https://api.cinetpay.com/v2/payment?") {
			t.Errorf("default checkout base not used: %q", raw)
		}
	})

	t.Run("rejects an empty transaction id", func(t *testing.T) {
		g := NewCinetPayGateway("site-1", "key", "", "")
		if _, err := g.CheckoutURL(ctx, "", decimal.NewFromInt(100), "XOF"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("honors a custom checkout base", func(t *testing.T) {
		g := NewCinetPayGateway("", "key", "", "https://sandbox.example/pay")
		raw, err := g.CheckoutURL(ctx, "cp_x", decimal.NewFromInt(100), "XOF")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(raw, "https://sandbox.example/pay?") {
			t.Errorf("custom base not used: %q", raw)
		}
	})
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"transaction_id":"cp_x","status":"ACCEPTED"}`)
	sign := func(secret string) string {
		h := hmac.New(sha256.New, []byte(secret))
		h.Write(body)
		return hex.EncodeToString(h.Sum(nil))
	}

	t.Run("accepts the correct signature", func(t *testing.T) {
		g := NewCinetPayGateway("", "", "topsecret", "")
		if !g.VerifySignature(sign("topsecret"), body) {
			t.Error("valid signature rejected")
		}
	})

	t.Run("accepts a mixed-case hex signature", func(t *testing.T) {
		g := NewCinetPayGateway("", "", "topsecret", "")
		if !g.VerifySignature(strings.ToUpper(sign("topsecret")), body) {
			t.Error("uppercase hex signature rejected")
		}
	})

	t.Run("rejects a signature under the wrong secret", func(t *testing.T) {
		g := NewCinetPayGateway("", "", "topsecret", "")
		if g.VerifySignature(sign("othersecret"), body) {
			t.Error("signature under the wrong secret accepted")
		}
	})

	t.Run("rejects a tampered body", func(t *testing.T) {
		g := NewCinetPayGateway("", "", "topsecret", "")
		tampered := []byte(`{"transaction_id":"cp_y","status":"ACCEPTED"}`)
		if g.VerifySignature(sign("topsecret"), tampered) {
			t.Error("tampered body accepted")
		}
	})

	t.Run("accepts everything without a configured secret", func(t *testing.T) {
		g := NewCinetPayGateway("", "", "", "")
		if !g.VerifySignature("", body) {
			t.Error("secretless gateway must accept")
		}
	})
}
