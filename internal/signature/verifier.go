// Package signature authenticates payment triggers with HMAC-SHA256.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ClientPayload is the message the gateway signs for a checkout
// confirmation.
func ClientPayload(orderID, paymentID string) []byte {
	return []byte(orderID + "|" + paymentID)
}

// Sign returns the lowercase hex HMAC-SHA256 of payload.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifyClientConfirmation(orderID, paymentID, sig, secret string) bool {
	if orderID == "" || paymentID == "" {
		return false
	}
	return verify(ClientPayload(orderID, paymentID), sig, secret)
}

// VerifyGatewayNotification must be given the body bytes exactly as
// received, before any decoding.
func VerifyGatewayNotification(rawBody []byte, sig, secret string) bool {
	if len(rawBody) == 0 {
		return false
	}
	return verify(rawBody, sig, secret)
}

func verify(payload []byte, sig, secret string) bool {
	if secret == "" || sig == "" {
		return false
	}

	got, err := hex.DecodeString(strings.TrimSpace(sig))
	if err != nil || len(got) != sha256.Size {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), got)
}
