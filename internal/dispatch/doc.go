// Package dispatch performs the detached delivery-dispatch call for a routed webhook.
//
// Each webhook produces exactly one outbound POST, started in its own goroutine
// and detached from the inbound request's cancellation. The caller's response
// never depends on the outcome.
//
// Delivery guarantees:
//   - At most once: no retry, no queue, no persistence
//   - Outcome (status, headers, body) is only logged, keyed by a delivery id
//   - Wait blocks until in-flight deliveries finish, for shutdown and tests
package dispatch
