package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	PaymentResultPaid   = "PAID"
	PaymentResultFailed = "FAILED"
)

// PaymentCallback is what the hosted payment page posts back once the
// customer has paid or given up.
type PaymentCallback struct {
	OrderID       int64  `json:"order_id" validate:"required,gt=0"`
	Result        string `json:"result" validate:"required,oneof=PAID FAILED"`
	Amount        int64  `json:"amount" validate:"gte=0"`
	TransactionID string `json:"transaction_id" validate:"max=128"`
}

func SignPayload(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the hex HMAC-SHA256 of body. An empty secret rejects
// everything.
func VerifySignature(secret, body []byte, signature string) bool {
	if len(secret) == 0 || signature == "" {
		return false
	}
	expected := SignPayload(secret, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
