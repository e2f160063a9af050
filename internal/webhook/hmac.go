package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

// SignatureHeader is the header the storefront platform signs deliveries with.
const SignatureHeader = "X-Shopify-Hmac-Sha256"

// ErrVerification is the only error Verify returns.
var ErrVerification = errors.New("webhook verification failed")

// Verify checks a base64 HMAC-SHA256 signature against the raw request body.
//
// body must be the bytes exactly as received. Returns nil if the signature is
// valid, ErrVerification otherwise.
func Verify(body []byte, signature, secret string) error {
	if secret == "" || signature == "" {
		return ErrVerification
	}

	expected := Sign(body, secret)

	// Constant-time comparison to prevent timing attacks
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return ErrVerification
	}
	return nil
}

// Sign computes the base64-encoded HMAC-SHA256 of body with secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
