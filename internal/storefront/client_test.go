package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/shoprelay/internal/draftorder"
)

func testRequest() draftorder.Request {
	return draftorder.Request{LineItems: []draftorder.LineItem{{VariantID: "V1", Quantity: "1"}}}
}

func TestCreateDraftOrder(t *testing.T) {
	var gotPath string
	var gotUser, gotPass string
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"draft_order":{"id":994118539,"invoice_url":"https://shop/invoice"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "key", Password: "pw", APIVersion: "2023-10", Timeout: time.Second})
	out, err := c.CreateDraftOrder(context.Background(), testRequest())
	require.NoError(t, err)

	assert.JSONEq(t, `{"draft_order":{"id":994118539,"invoice_url":"https://shop/invoice"}}`, string(out))
	assert.Equal(t, "/admin/api/2023-10/draft_orders.json", gotPath)
	assert.Equal(t, "key", gotUser)
	assert.Equal(t, "pw", gotPass)
	assert.Contains(t, gotBody, "draft_order")
}

func TestCreateDraftOrder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"string errors", http.StatusUnauthorized, `{"errors":"[API] Invalid API key or access token"}`, "[API] Invalid API key or access token"},
		{"field errors", http.StatusUnprocessableEntity, `{"errors":{"quantity":["must be greater than 0"],"line_items":["is invalid"]}}`, "line_items: is invalid; quantity: must be greater than 0"},
		{"plain text", http.StatusBadGateway, "upstream down", "upstream down"},
		{"empty body", http.StatusServiceUnavailable, "", "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(Config{BaseURL: srv.URL, APIVersion: "2023-10"}).CreateDraftOrder(context.Background(), testRequest())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode())
			assert.Equal(t, tt.wantMsg, apiErr.Error())
		})
	}
}

func TestNewClient_DerivesShopURL(t *testing.T) {
	c := NewClient(Config{Shop: "my-shop"})
	assert.Equal(t, "https://my-shop.myshopify.com", c.baseURL)
}
