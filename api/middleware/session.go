package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendstack/kiosk-backend/pkg/logger"
)

// SessionIDFromRequest reads the session id path parameter when present.
func SessionIDFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	return chi.URLParam(r, "sessionId")
}

// SessionContext tags every log entry inside a session route with the
// session id from the URL.
func SessionContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logg != nil {
				if sessionID := SessionIDFromRequest(r); sessionID != "" {
					r = r.WithContext(logg.WithSessionID(r.Context(), sessionID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
