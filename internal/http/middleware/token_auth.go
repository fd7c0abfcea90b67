package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// Header forms accepted for endpoint tokens, in the order they are checked.
const (
	HeaderAPIKey       = "X-Api-Key"
	HeaderWebhookToken = "X-Webhook-Token"
)

// RequireToken rejects requests that do not present secret, either as
// "Authorization: Bearer <secret>" or through one of the fallback headers.
// An empty secret rejects everything.
func RequireToken(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" || !tokenMatches(PresentedToken(r), secret) {
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PresentedToken returns the first token found on r.
func PresentedToken(r *http.Request) string {
	if auth := strings.TrimSpace(r.Header.Get("Authorization")); auth != "" {
		if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
			return strings.TrimSpace(auth[7:])
		}
	}
	if v := strings.TrimSpace(r.Header.Get(HeaderAPIKey)); v != "" {
		return v
	}
	return strings.TrimSpace(r.Header.Get(HeaderWebhookToken))
}

func tokenMatches(presented, secret string) bool {
	if presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) == 1
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "unauthorized"})
}
