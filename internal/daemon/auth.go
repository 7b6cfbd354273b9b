package daemon

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// authMiddleware wraps next with bearer-token validation. An empty token
// disables authentication entirely, which is the default for loopback binds.
func authMiddleware(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) || strings.TrimPrefix(auth, bearerPrefix) != token {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
