// Package webhook verifies and decodes inbound storefront webhooks.
//
// The storefront platform signs every delivery with HMAC-SHA256 over the raw
// request body using a pre-shared secret, and sends the base64 digest in the
// X-Shopify-Hmac-Sha256 header.
//
// # Security Model
//
//   - The digest is computed over the untouched body bytes, never a re-encoded form
//   - Comparison uses crypto/subtle (constant time)
//   - Verification errors are generic so callers cannot probe the format
//   - Payload contents are never logged on the failure path
//
// # Payload
//
// Customer webhooks are decoded into Payload. Shopify sends JSON, where tags
// arrive as a comma-separated string and default_address as an object; the
// form-urlencoded variant is accepted as well:
//
//	email=a@b.com&first_name=Ann&tags[]=agent&default_address=1+Main+St
//
// # Example Usage
//
//	if err := webhook.Verify(body, r.Header.Get(webhook.SignatureHeader), secret); err != nil {
//		return forbidden
//	}
//	payload, err := webhook.Decode(body, r.Header.Get("Content-Type"))
package webhook
