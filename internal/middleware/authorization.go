package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireSession checks that the request carries a signed-in user.
// Must run after SessionMiddleware.
func RequireSession(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUser(r.Context()); !ok {
				logger.Debug("Sign-in required",
					zap.String("client_id", GetClientID(r.Context())),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusUnauthorized, "sign in required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
