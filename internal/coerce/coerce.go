package coerce

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotFinite is returned when a value cannot be read as a finite number.
var ErrNotFinite = errors.New("value is not a finite number")

// ToFinite converts an untyped field into a finite float64. It accepts the
// numeric kinds a JSON decoder or document store may produce, plus numeric
// strings. NaN and ±Inf are rejected, never clamped.
func ToFinite(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, ErrNotFinite
		}
		return n, nil
	case float32:
		return ToFinite(float64(n))
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return ToFinite(string(n))
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, ErrNotFinite
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrNotFinite
		}
		return ToFinite(f)
	default:
		return 0, ErrNotFinite
	}
}

// FirstFinite tries the candidate keys strictly in the given order and
// returns the first value that coerces to a finite number. The order is the
// reconciliation policy for provider-specific field naming: callers list
// preferred spellings first and last-resort fallbacks last.
func FirstFinite(fields map[string]any, keys ...string) (float64, error) {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if f, err := ToFinite(v); err == nil {
			return f, nil
		}
	}
	return 0, ErrNotFinite
}

// FirstString returns the first candidate key holding a non-blank string,
// trimmed. Non-string values are skipped rather than stringified.
func FirstString(fields map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				return t, true
			}
		}
	}
	return "", false
}
