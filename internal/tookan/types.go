package tookan

import "net/http"

// Endpoint paths relative to the dispatch API base URL.
const (
	AgentEndpoint    = "/v2/add_agent"
	CustomerEndpoint = "/v2/customer/add"
)

// AgentRequest registers a delivery agent.
type AgentRequest struct {
	APIKey    string `json:"api_key"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TeamID    string `json:"team_id"`
	Timezone  string `json:"timezone"`
	Color     string `json:"color"`
}

// CustomerRequest registers a delivery customer.
type CustomerRequest struct {
	APIKey   string `json:"api_key"`
	UserType int    `json:"user_type"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Response is the raw outcome of one dispatch API call.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}
