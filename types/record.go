package types

import (
	"strings"

	"github.com/goccy/go-json"
)

// Record is a single decoded JSON Lines record. Values carry the dynamic
// JSON types: nil, bool, float64, string, map[string]any and []any, plus
// int64 for the injected line number.
type Record map[string]any

// StringifiedValue renders the value under key as a CSV cell. Strings pass
// through verbatim with no quoting or escaping, null becomes the literal
// "null" and every other value is re-encoded as JSON.
func (r Record) StringifiedValue(key string) (string, error) {
	switch value := r[key].(type) {
	case nil:
		return "null", nil
	case string:
		return value, nil
	default:
		s, err := json.Marshal(value)
		return string(s), err
	}
}

// FoldStrings lowercases every string-valued top-level field in place.
func (r Record) FoldStrings() {
	for key, value := range r {
		if s, ok := value.(string); ok {
			r[key] = strings.ToLower(s)
		}
	}
}
