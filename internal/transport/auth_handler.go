package transport

import (
	"context"
	"errors"
	"net/http"

	"attar-store/internal/auth"
	"attar-store/internal/domain"
	"attar-store/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionManager signs a client in and out with the identity provider
type SessionManager interface {
	Login(ctx context.Context, clientID, idToken string) (domain.Session, error)
	Logout(ctx context.Context, clientID string) error
}

// LoginRequest carries the credential issued by Google Sign-In
type LoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

// SessionResponse describes the signed-in user, if any. The session token stays server side.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user"`
}

// AuthHandler handles HTTP requests for sign-in
type AuthHandler struct {
	sessions SessionManager
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, requireClient, session, loginLimit func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(requireClient)
		r.With(loginLimit).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(session).Get("/session", h.GetSession)
	})
}

// Login exchanges the provider credential for a session and remembers it for the client
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	clientID := middleware.GetClientID(r.Context())
	session, err := h.sessions.Login(r.Context(), clientID, req.Credential)
	if err != nil {
		var loginErr *auth.LoginError
		switch {
		case errors.As(err, &loginErr):
			h.logger.Debug("Login rejected", zap.String("client_id", clientID), zap.Int("status", loginErr.Status))
			middleware.RespondWithError(w, http.StatusUnauthorized, loginErr.Error())
		case errors.Is(err, auth.ErrAuthUnavailable):
			h.logger.Warn("Identity service unavailable", zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadGateway, "sign-in is temporarily unavailable")
		default:
			h.logger.Error("Login failed", zap.String("client_id", clientID), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to sign in")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, SessionResponse{Authenticated: true, User: &session.User})
}

// Logout forgets the client's session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.GetClientID(r.Context())
	if err := h.sessions.Logout(r.Context(), clientID); err != nil {
		h.logger.Error("Logout failed", zap.String("client_id", clientID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to sign out")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, SessionResponse{})
}

// GetSession reports the user restored for this client
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, SessionResponse{Authenticated: ok, User: user})
}
