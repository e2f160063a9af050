// Package router decides which dispatch integration a storefront webhook feeds.
package router

import (
	"github.com/mattjoyce/shoprelay/internal/tookan"
	"github.com/mattjoyce/shoprelay/internal/webhook"
)

// AgentTag marks a customer signup that should become a delivery agent.
const AgentTag = "agent"

// Kind identifies the dispatch integration a payload is routed to.
type Kind string

const (
	KindAgent    Kind = "agent"
	KindCustomer Kind = "customer"
)

// fallbacks applied when the webhook leaves a field empty.
var fallbacks = map[string]string{
	"phone":      "000",
	"first_name": "First",
	"last_name":  "Last",
	"name":       "Test",
}

// Defaults holds the configured dispatch account settings.
type Defaults struct {
	APIKey   string
	TeamID   string
	Timezone string
	Color    string
}

// Decision describes the single outbound call for one webhook.
type Decision struct {
	Kind     Kind
	Endpoint string
	Body     any
}

// Route classifies p and builds the matching dispatch request.
func Route(p webhook.Payload, d Defaults) Decision {
	if p.Tags.Has(AgentTag) {
		return Decision{
			Kind:     KindAgent,
			Endpoint: tookan.AgentEndpoint,
			Body: tookan.AgentRequest{
				APIKey:    d.APIKey,
				Username:  p.Email,
				Phone:     orDefault("phone", p.Phone),
				FirstName: orDefault("first_name", p.FirstName),
				LastName:  orDefault("last_name", p.LastName),
				TeamID:    d.TeamID,
				Timezone:  d.Timezone,
				Color:     d.Color,
			},
		}
	}

	return Decision{
		Kind:     KindCustomer,
		Endpoint: tookan.CustomerEndpoint,
		Body: tookan.CustomerRequest{
			APIKey:   d.APIKey,
			UserType: 0,
			Email:    p.Email,
			Name:     orDefault("name", p.Name),
			Phone:    orDefault("phone", p.Phone),
			Address:  string(p.DefaultAddress),
		},
	}
}

func orDefault(field, value string) string {
	if value != "" {
		return value
	}
	return fallbacks[field]
}
