package main

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "userId"

// extractUserMiddleware reads the identity set by the fronting reverse
// proxy. Without an identity the request is rejected before any handler
// runs; devUser, when configured, substitutes one for local development.
func extractUserMiddleware(devUser string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Traefik BasicAuth sets this header
			userID := r.Header.Get("X-Auth-User")

			// Also check common alternatives
			if userID == "" {
				userID = r.Header.Get("X-Forwarded-User")
			}
			if userID == "" {
				userID = r.Header.Get("Remote-User")
			}

			if userID == "" {
				userID = devUser
			}

			if userID == "" {
				respondError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userID(r *http.Request) string {
	id, ok := r.Context().Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
