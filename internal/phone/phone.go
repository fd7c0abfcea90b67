// Package phone canonicalizes caller-ID strings into E.164 keys.
//
// The rules are a digit-count heuristic rather than a full numbering-plan
// parser. Stored contact documents are keyed by the output of Normalize, so
// the rules must stay stable.
package phone

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	minInternationalDigits = 7
	maxInternationalDigits = 15
)

// Normalize converts raw into a canonical E.164 string. The boolean is false
// when no canonical form exists.
func Normalize(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	digits := Digits(trimmed)
	if strings.HasPrefix(trimmed, "+") {
		// Already international: keep the plus and the digits, nothing else.
		if digits == "" {
			return "", false
		}
		return "+" + digits, true
	}

	switch n := len(digits); {
	case n == 11 && digits[0] == '1':
		return "+" + digits, true
	case n == 10:
		return "+1" + digits, true
	case n >= minInternationalDigits && n <= maxInternationalDigits:
		return "+" + digits, true
	default:
		return "", false
	}
}

// Digits returns only the ASCII digits of value.
func Digits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FromAny normalizes a JSON-decoded value. Providers sometimes send caller IDs
// as bare numbers, so numeric values are accepted alongside strings.
func FromAny(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return Normalize(t)
	case json.Number:
		return Normalize(t.String())
	case float64:
		return Normalize(strconv.FormatFloat(t, 'f', -1, 64))
	case int64:
		return Normalize(strconv.FormatInt(t, 10))
	case int:
		return Normalize(strconv.Itoa(t))
	default:
		return "", false
	}
}

// Mask hides all but the last four digits, for logging.
func Mask(e164 string) string {
	if len(e164) <= 6 {
		return strings.Repeat("*", len(e164))
	}
	prefix := 2
	if !strings.HasPrefix(e164, "+") {
		prefix = 1
	}
	return e164[:prefix] + strings.Repeat("*", len(e164)-prefix-4) + e164[len(e164)-4:]
}
