package contacts

import (
	"encoding/json"
	"strings"
)

// callerPaths lists where inbound call payloads carry the caller's number, in
// priority order. Different telephony providers and agent platforms nest it
// differently; the first non-empty value wins.
var callerPaths = [][]string{
	{"caller_id"},
	{"callerId"},
	{"phone"},
	{"phoneNumber"},
	{"from"},
	{"From"},
	{"call", "from"},
	{"call", "customer", "number"},
	{"customer", "number"},
	{"message", "call", "customer", "number"},
	{"data", "payload", "from"},
	{"caller", "phone_number"},
}

// CallerID returns the first non-empty caller value in body and the dotted
// path it was found at.
func CallerID(body map[string]any) (any, string) {
	for _, path := range callerPaths {
		v, ok := lookupPath(body, path)
		if !ok || isEmpty(v) {
			continue
		}
		return v, strings.Join(path, ".")
	}
	return nil, ""
}

func lookupPath(body map[string]any, path []string) (any, bool) {
	var cur any = body
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case json.Number:
		return t == ""
	case map[string]any, []any:
		// Containers are never a phone number.
		return true
	default:
		return false
	}
}
