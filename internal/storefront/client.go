// Package storefront calls the storefront platform's admin REST API.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mattjoyce/shoprelay/internal/draftorder"
)

// Config holds private-app credentials for one shop.
type Config struct {
	// Shop is the shop handle, as in <shop>.myshopify.com.
	Shop       string
	APIKey     string
	Password   string
	APIVersion string
	// BaseURL overrides the URL derived from Shop.
	BaseURL string
	Timeout time.Duration
}

// Client creates draft orders on one shop.
type Client struct {
	baseURL    string
	apiVersion string
	apiKey     string
	password   string
	http       *http.Client
}

// NewClient creates a storefront client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.myshopify.com", cfg.Shop)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: cfg.APIVersion,
		apiKey:     cfg.APIKey,
		password:   cfg.Password,
		http:       &http.Client{Timeout: cfg.Timeout},
	}
}

// APIError is a non-2xx answer from the storefront platform.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusCode returns the platform's HTTP status.
func (e *APIError) StatusCode() int {
	return e.Status
}

// CreateDraftOrder submits req and returns the platform's response body verbatim.
func (c *Client) CreateDraftOrder(ctx context.Context, req draftorder.Request) (json.RawMessage, error) {
	payload, err := json.Marshal(struct {
		DraftOrder draftorder.Request `json:"draft_order"`
	}{req})
	if err != nil {
		return nil, fmt.Errorf("encode draft order: %w", err)
	}

	url := fmt.Sprintf("%s/admin/api/%s/draft_orders.json", c.baseURL, c.apiVersion)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build draft order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.apiKey, c.password)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create draft order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read draft order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}
	return json.RawMessage(body), nil
}

// errorMessage extracts the platform's "errors" field, which is either a
// string or an object of field -> messages.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Errors, &s); err == nil && s != "" {
			return s
		}
		var fields map[string][]string
		if err := json.Unmarshal(envelope.Errors, &fields); err == nil && len(fields) > 0 {
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, k+": "+strings.Join(fields[k], ", "))
			}
			return strings.Join(parts, "; ")
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}
