package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"
)

// ErrMalformedPayload wraps every decoding failure.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// Payload is the customer record carried by a storefront webhook.
type Payload struct {
	ID             FlexString `json:"id"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Name           string     `json:"name"`
	DefaultAddress Address    `json:"default_address"`
	Tags           Tags       `json:"tags"`
}

// Tags is the set of labels attached to a customer.
type Tags []string

// Has reports whether tag is present. Labels are compared exactly after trimming.
func (t Tags) Has(tag string) bool {
	for _, v := range t {
		if strings.TrimSpace(v) == tag {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts a JSON array or Shopify's comma-separated string.
func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = splitTags(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings: %w", err)
	}
	*t = Tags(list)
	return nil
}

func splitTags(s string) Tags {
	var out Tags
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Address is a customer's default address rendered as a single line.
type Address string

// addressParts lists the Shopify address fields in rendering order.
var addressParts = []string{"address1", "address2", "city", "province", "zip", "country"}

// UnmarshalJSON accepts a plain string or a Shopify address object.
func (a *Address) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Address(s)
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("default_address must be a string or an object: %w", err)
	}
	*a = joinAddress(func(key string) string {
		s, _ := obj[key].(string)
		return s
	})
	return nil
}

func joinAddress(get func(key string) string) Address {
	var parts []string
	for _, key := range addressParts {
		if v := strings.TrimSpace(get(key)); v != "" {
			parts = append(parts, v)
		}
	}
	return Address(strings.Join(parts, ", "))
}

// FlexString decodes a JSON string or number into its textual form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
	}
	return nil
}

// Decode parses a raw webhook body. Form-urlencoded bodies are selected by
// content type; anything else is treated as JSON.
func Decode(body []byte, contentType string) (Payload, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/x-www-form-urlencoded" {
		return decodeForm(body)
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return p, nil
}

func decodeForm(body []byte) (Payload, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	p := Payload{
		ID:        FlexString(values.Get("id")),
		Email:     values.Get("email"),
		Phone:     values.Get("phone"),
		FirstName: values.Get("first_name"),
		LastName:  values.Get("last_name"),
		Name:      values.Get("name"),
	}

	for _, key := range []string{"tags", "tags[]"} {
		for _, v := range values[key] {
			p.Tags = append(p.Tags, splitTags(v)...)
		}
	}

	if addr := values.Get("default_address"); addr != "" {
		p.DefaultAddress = Address(addr)
	} else {
		p.DefaultAddress = joinAddress(func(key string) string {
			return values.Get("default_address[" + key + "]")
		})
	}
	return p, nil
}
