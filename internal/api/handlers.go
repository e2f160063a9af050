package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mattjoyce/shoprelay/internal/draftorder"
	"github.com/mattjoyce/shoprelay/internal/properties"
	"github.com/mattjoyce/shoprelay/internal/router"
	"github.com/mattjoyce/shoprelay/internal/webhook"
)

// handleHealthz handles GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthzResponse{
		Status:            "ok",
		UptimeSeconds:     int64(time.Since(s.startedAt).Seconds()),
		StorefrontEnabled: s.storefront != nil,
	})
}

// handleWebhook handles POST / from the storefront platform.
//
// The signature is checked over the raw body before anything is parsed. Once
// verified and routed the caller gets 200, whatever the dispatch outcome.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) error {
	body, err := s.readBody(r)
	if err != nil {
		return err
	}

	reqID := middleware.GetReqID(r.Context())
	verified := true
	if err := webhook.Verify(body, r.Header.Get(s.config.SignatureHeader), s.config.Secret); err != nil {
		s.logger.Warn("webhook signature verification failed",
			"path", r.URL.Path,
			"header", s.config.SignatureHeader,
			"request_id", reqID,
			"enforced", s.config.EnforceSignature,
		)
		if s.config.EnforceSignature {
			return withStatus(http.StatusForbidden, errors.New("forbidden"))
		}
		// Lenient mode: answer 403 now and keep relaying.
		w.WriteHeader(http.StatusForbidden)
		verified = false
	} else {
		s.logger.Info("new signed webhook", "request_id", reqID)
	}

	payload, err := webhook.Decode(body, r.Header.Get("Content-Type"))
	if err != nil {
		if !verified {
			s.logger.Warn("unverified webhook dropped", "request_id", reqID, "error", err)
			return nil
		}
		return withStatus(http.StatusBadRequest, err)
	}

	decision := router.Route(payload, s.config.Dispatch)
	deliveryID := s.dispatcher.Go(r.Context(), decision)

	s.logger.Info("webhook routed",
		"request_id", reqID,
		"kind", string(decision.Kind),
		"endpoint", decision.Endpoint,
		"delivery_id", deliveryID,
		"verified", verified,
	)

	if verified {
		w.WriteHeader(http.StatusOK)
	}
	return nil
}

// handleOrder handles POST /order: builds a draft order and relays the
// platform's response.
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) error {
	if s.storefront == nil {
		return withStatus(http.StatusServiceUnavailable, errors.New("storefront is not configured"))
	}

	body, err := s.readBody(r)
	if err != nil {
		return err
	}

	form, err := properties.ParseForm(body)
	if err != nil {
		return withStatus(http.StatusBadRequest, err)
	}

	req, err := draftorder.Build(form)
	if err != nil {
		if errors.Is(err, draftorder.ErrInvalidForm) {
			return withStatus(http.StatusBadRequest, err)
		}
		return err
	}

	created, err := s.storefront.CreateDraftOrder(r.Context(), req)
	if err != nil {
		return err
	}

	s.logger.Info("draft order created",
		"request_id", middleware.GetReqID(r.Context()),
		"variant_id", req.LineItems[0].VariantID,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(created)
	return nil
}

// readBody reads the untouched request body, bounded by MaxBodySize.
func (s *Server) readBody(r *http.Request) ([]byte, error) {
	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, withStatus(http.StatusBadRequest, errors.New("failed to read request body"))
	}
	if int64(len(body)) > s.config.MaxBodySize {
		return nil, withStatus(http.StatusRequestEntityTooLarge, errors.New("payload too large"))
	}
	return body, nil
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
