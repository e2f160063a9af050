package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mattjoyce/shoprelay/internal/draftorder"
	"github.com/mattjoyce/shoprelay/internal/router"
)

// Dispatcher starts detached delivery-dispatch calls.
type Dispatcher interface {
	Go(ctx context.Context, decision router.Decision) string
	Wait(ctx context.Context) error
}

// DraftOrderCreator submits draft orders to the storefront platform.
type DraftOrderCreator interface {
	CreateDraftOrder(ctx context.Context, req draftorder.Request) (json.RawMessage, error)
}

// Config holds gateway configuration.
type Config struct {
	Listen      string
	StaticDir   string
	MaxBodySize int64

	// Secret and SignatureHeader verify inbound storefront webhooks.
	Secret          string
	SignatureHeader string
	// EnforceSignature stops processing on a failed verification. When false
	// the caller gets 403 but the webhook is still routed.
	EnforceSignature bool

	Dispatch router.Defaults

	// DrainTimeout bounds how long shutdown waits for in-flight deliveries.
	DrainTimeout time.Duration
}

// HealthzResponse is returned by GET /healthz.
type HealthzResponse struct {
	Status            string `json:"status"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
	StorefrontEnabled bool   `json:"storefront_enabled"`
}

// Default values
const (
	DefaultMaxBodySize  = 1048576 // 1 MB
	DefaultDrainTimeout = 10 * time.Second
)
