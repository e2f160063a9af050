package properties

import "strings"

// Entry is one labelled property of a line item.
type Entry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// keyMarker selects the fields Extract considers.
const keyMarker = "properties"

// Extract returns the property entries of form in submission order.
//
// Only keys containing "properties" with a non-empty value and a [label] are
// used. When wantTax is true only tax labels are returned, otherwise only
// non-tax labels. The result is never nil.
func Extract(form Form, wantTax bool) []Entry {
	entries := make([]Entry, 0)
	for _, field := range form {
		if !strings.Contains(field.Key, keyMarker) || field.Value == "" {
			continue
		}
		label, ok := Label(field.Key)
		if !ok {
			continue
		}
		if IsTax(label) != wantTax {
			continue
		}
		entries = append(entries, Entry{Name: label, Value: field.Value})
	}
	return entries
}

// Label extracts the text between the first '[' and the next ']' of key,
// with quote characters removed. ok is false when key has no bracket pair.
func Label(key string) (label string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return "", false
	}
	end := strings.IndexByte(key[open+1:], ']')
	if end < 0 {
		return "", false
	}
	label = key[open+1 : open+1+end]
	label = strings.NewReplacer(`"`, "", `'`, "", "[", "", "]", "").Replace(label)
	return label, true
}

// IsTax reports whether a label is tax-classified: it starts with uppercase Y.
func IsTax(label string) bool {
	return strings.HasPrefix(label, "Y")
}
