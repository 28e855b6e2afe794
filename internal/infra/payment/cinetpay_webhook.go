package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the x-token header CinetPay sends with each
// notification: HMAC-SHA256 of the raw body under the webhook secret.
// A gateway configured without a secret accepts everything (dev mode).
func (g *CinetPayGateway) VerifySignature(signature string, body []byte) bool {
	if g.webhookSecret == "" {
		return true
	}
	h := hmac.New(sha256.New, []byte(g.webhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return strings.EqualFold(expected, signature)
}
