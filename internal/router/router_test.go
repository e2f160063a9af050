package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/shoprelay/internal/tookan"
	"github.com/mattjoyce/shoprelay/internal/webhook"
)

var testDefaults = Defaults{
	APIKey:   "tk",
	TeamID:   "Default Team",
	Timezone: "-330",
	Color:    "blue",
}

func TestRoute_Agent(t *testing.T) {
	d := Route(webhook.Payload{Tags: webhook.Tags{"agent"}, Email: "a@b.com"}, testDefaults)

	assert.Equal(t, KindAgent, d.Kind)
	assert.Equal(t, tookan.AgentEndpoint, d.Endpoint)

	body, ok := d.Body.(tookan.AgentRequest)
	require.True(t, ok, "body should be an AgentRequest, got %T", d.Body)
	assert.Equal(t, tookan.AgentRequest{
		APIKey:    "tk",
		Username:  "a@b.com",
		Phone:     "000",
		FirstName: "First",
		LastName:  "Last",
		TeamID:    "Default Team",
		Timezone:  "-330",
		Color:     "blue",
	}, body)
}

func TestRoute_AgentKeepsProvidedFields(t *testing.T) {
	d := Route(webhook.Payload{
		Tags:      webhook.Tags{"vip", "agent"},
		Email:     "r@x.io",
		Phone:     "+33123",
		FirstName: "Rae",
		LastName:  "Lee",
	}, testDefaults)

	body := d.Body.(tookan.AgentRequest)
	assert.Equal(t, "+33123", body.Phone)
	assert.Equal(t, "Rae", body.FirstName)
	assert.Equal(t, "Lee", body.LastName)
}

func TestRoute_Customer(t *testing.T) {
	d := Route(webhook.Payload{Tags: webhook.Tags{}, Email: "a@b.com", Name: "A"}, testDefaults)

	assert.Equal(t, KindCustomer, d.Kind)
	assert.Equal(t, tookan.CustomerEndpoint, d.Endpoint)

	body, ok := d.Body.(tookan.CustomerRequest)
	require.True(t, ok, "body should be a CustomerRequest, got %T", d.Body)
	assert.Equal(t, 0, body.UserType)
	assert.Equal(t, "A", body.Name)
	assert.Equal(t, "a@b.com", body.Email)
	assert.Equal(t, "000", body.Phone)
	assert.Equal(t, "tk", body.APIKey)
}

func TestRoute_CustomerFallbacks(t *testing.T) {
	d := Route(webhook.Payload{Email: "a@b.com", DefaultAddress: "1 Main St"}, testDefaults)

	body := d.Body.(tookan.CustomerRequest)
	assert.Equal(t, "Test", body.Name)
	assert.Equal(t, "000", body.Phone)
	assert.Equal(t, "1 Main St", body.Address)
}

func TestRoute_SimilarTagIsCustomer(t *testing.T) {
	d := Route(webhook.Payload{Tags: webhook.Tags{"agents", "secret-agent"}}, testDefaults)
	assert.Equal(t, KindCustomer, d.Kind)
}

func TestOrDefault(t *testing.T) {
	tests := []struct {
		field, value, want string
	}{
		{"phone", "", "000"},
		{"first_name", "", "First"},
		{"last_name", "", "Last"},
		{"name", "", "Test"},
		{"phone", "+33 1 23", "+33 1 23"},
		{"unknown", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, orDefault(tt.field, tt.value), "%s=%q", tt.field, tt.value)
	}
}
