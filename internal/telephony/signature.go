package telephony

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// SignatureHeader is the request header carrying the provider signature.
const SignatureHeader = "X-Retell-Signature"

var (
	ErrSecretNotConfigured = errors.New("telephony: webhook secret not configured")
	ErrMissingSignature    = errors.New("telephony: missing signature header")
	ErrSignatureMismatch   = errors.New("telephony: signature mismatch")
)

// VerifySignature checks the provider's HMAC-SHA256 signature over the exact
// payload bytes received. The comparison is constant time. Fails closed on a
// missing secret or header.
func VerifySignature(secret string, payload []byte, signature string) error {
	if strings.TrimSpace(secret) == "" {
		return ErrSecretNotConfigured
	}
	actual := strings.ToLower(strings.TrimSpace(signature))
	actual = strings.TrimPrefix(actual, "v1=")
	if actual == "" {
		return ErrMissingSignature
	}
	provided, err := hex.DecodeString(actual)
	if err != nil {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	expected := mac.Sum(nil)
	if !hmac.Equal(expected, provided) {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign computes the hex signature for a payload. Used by tests and tooling.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
