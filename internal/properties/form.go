// Package properties turns bracket-notation form keys into labelled line item
// properties.
//
// Storefront product forms post custom options as properties[<label>]=<value>.
// Labels starting with an uppercase Y are tax fields by storefront convention.
package properties

import (
	"fmt"
	"net/url"
	"strings"
)

// Field is one key/value pair of a form submission.
type Field struct {
	Key   string
	Value string
}

// Form is a url-encoded submission that keeps the order fields were sent in.
type Form []Field

// ParseForm decodes a raw application/x-www-form-urlencoded body.
func ParseForm(body []byte) (Form, error) {
	var form Form
	for _, pair := range strings.Split(string(body), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("invalid form key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("invalid form value for %q: %w", key, err)
		}
		form = append(form, Field{Key: key, Value: value})
	}
	return form, nil
}

// Get returns the first value for key, or "" if absent.
func (f Form) Get(key string) string {
	v, _ := f.Lookup(key)
	return v
}

// Lookup returns the first value for key and whether it was present.
func (f Form) Lookup(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Without returns a copy of f with every field named key removed.
func (f Form) Without(key string) Form {
	out := make(Form, 0, len(f))
	for _, field := range f {
		if field.Key != key {
			out = append(out, field)
		}
	}
	return out
}
