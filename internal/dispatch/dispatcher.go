package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mattjoyce/shoprelay/internal/router"
	"github.com/mattjoyce/shoprelay/internal/tookan"
)

//go:generate mockgen -destination=mocks/mock_poster.go -package=mocks github.com/mattjoyce/shoprelay/internal/dispatch Poster

// Poster sends one request to the dispatch API.
type Poster interface {
	Post(ctx context.Context, endpoint string, body any) (*tookan.Response, error)
}

// Dispatcher runs detached deliveries.
type Dispatcher struct {
	poster   Poster
	logger   *slog.Logger
	inflight sync.WaitGroup
}

// New creates a Dispatcher.
func New(poster Poster, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{poster: poster, logger: logger}
}

// Go starts the delivery for decision and returns its delivery id immediately.
// ctx supplies values only; its cancellation does not stop the delivery.
func (d *Dispatcher) Go(ctx context.Context, decision router.Decision) string {
	id := uuid.NewString()
	detached := context.WithoutCancel(ctx)

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.deliver(detached, id, decision)
	}()
	return id
}

// Wait blocks until all started deliveries have finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id string, decision router.Decision) {
	logger := d.logger.With(
		"delivery_id", id,
		"kind", string(decision.Kind),
		"endpoint", decision.Endpoint,
	)

	resp, err := d.poster.Post(ctx, decision.Endpoint, decision.Body)
	if err != nil {
		logger.Error("dispatch call failed", "error", err)
		return
	}

	level := slog.LevelInfo
	if !resp.OK() {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "dispatch call completed",
		"status", resp.Status,
		"headers", resp.Headers,
		"response", string(resp.Body),
	)
}
