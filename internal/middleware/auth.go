package middleware

import (
	"context"
	"errors"
	"net/http"

	"attar-store/internal/auth"
	"attar-store/internal/domain"

	"go.uber.org/zap"
)

// SessionRestorer restores the signed-in session of a client
type SessionRestorer interface {
	Restore(ctx context.Context, clientID string) (domain.Session, error)
}

// SessionMiddleware restores the client's session, if any, and stores it in the context.
// Requests without a valid session continue anonymously.
func SessionMiddleware(sessions SessionRestorer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := GetClientID(r.Context())
			if clientID == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.Restore(r.Context(), clientID)
			switch {
			case err == nil:
				annotate(r.Context(), func(rl *requestLog) { rl.userID = session.User.ID })
				ctx := context.WithValue(r.Context(), SessionKey, session)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			case errors.Is(err, auth.ErrNoSession):
			case errors.Is(err, auth.ErrSessionExpired):
				logger.Debug("Session expired", zap.String("client_id", clientID))
			default:
				logger.Error("Failed to restore session",
					zap.Error(err),
					zap.String("client_id", clientID),
				)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetSession extracts the restored session from the request context
func GetSession(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(domain.Session)
	return session, ok
}

// GetUser extracts the signed-in user from the request context
func GetUser(ctx context.Context) (*domain.User, bool) {
	session, ok := GetSession(ctx)
	if !ok {
		return nil, false
	}
	user := session.User
	return &user, true
}
