package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientIDHeader carries the browser-generated identity that scopes a visitor's cart, reviews and images
const ClientIDHeader = "X-Client-ID"

type contextKey string

const (
	ClientIDKey contextKey = "client_id"
	SessionKey  contextKey = "session"
)

// ClientIDMiddleware requires a UUID client id on every request and stores it in the context
func ClientIDMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return clientID(logger, true)
}

// OptionalClientIDMiddleware stores the client id when one is sent; malformed ids are still rejected
func OptionalClientIDMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return clientID(logger, false)
}

func clientID(logger *zap.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(ClientIDHeader))
			if raw == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				logger.Debug("Missing client id header", zap.String("path", r.URL.Path))
				RespondWithError(w, http.StatusBadRequest, "missing "+ClientIDHeader+" header")
				return
			}

			id, err := uuid.Parse(raw)
			if err != nil {
				logger.Debug("Invalid client id", zap.String("client_id", raw))
				RespondWithError(w, http.StatusBadRequest, "invalid "+ClientIDHeader+" header")
				return
			}

			annotate(r.Context(), func(rl *requestLog) { rl.clientID = id.String() })
			ctx := context.WithValue(r.Context(), ClientIDKey, id.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientID extracts the client id from the request context
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(ClientIDKey).(string)
	return id
}
