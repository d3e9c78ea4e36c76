package parser

import (
	"strconv"
	"strings"
	"time"
)

// ResolveKey finds the real key in attrs matching one of the candidate
// names. Each candidate is tried verbatim first, then case-insensitively,
// then case-insensitively with spaces in the real key treated as
// underscores. Upstream sensors do not agree on key casing or spacing, so
// absence is an expected outcome, not an error.
func ResolveKey(attrs map[string]any, candidates ...string) (string, bool) {
	for _, want := range candidates {
		if _, ok := attrs[want]; ok {
			return want, true
		}
		lower := strings.ToLower(want)
		for key := range attrs {
			if strings.ToLower(key) == lower {
				return key, true
			}
		}
		for key := range attrs {
			if strings.ToLower(strings.ReplaceAll(key, " ", "_")) == lower {
				return key, true
			}
		}
	}
	return "", false
}

// resolveValue returns the value behind the first resolvable candidate key.
func resolveValue(attrs map[string]any, candidates ...string) (any, bool) {
	key, ok := ResolveKey(attrs, candidates...)
	if !ok {
		return nil, false
	}
	return attrs[key], true
}

// listValue coerces a decoded attribute value to a slice.
func listValue(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// mapValue coerces a decoded attribute value to a string-keyed mapping.
func mapValue(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// floatValue coerces a decoded attribute value to a float64. Sources emit
// prices as JSON numbers, integers, or occasionally strings.
func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// timeValue coerces a decoded attribute value to a timestamp. Accepts
// RFC 3339 strings with or without sub-second precision, and time.Time
// values passed through untouched.
func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(t))
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

// boolValue coerces a decoded attribute value to a bool, defaulting to
// false for anything unrecognized.
func boolValue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	default:
		return false
	}
}
