package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attar-store/internal/domain"
	"attar-store/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Manager owns the session of each client: sign-in, restore and sign-out
type Manager struct {
	provider Provider
	tokens   repository.SessionTokenRepository
	logger   *zap.Logger
	now      func() time.Time
	parser   *jwt.Parser
}

// NewManager creates a session manager backed by provider and the token repository
func NewManager(provider Provider, tokens repository.SessionTokenRepository, logger *zap.Logger) *Manager {
	return &Manager{
		provider: provider,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
		parser:   jwt.NewParser(),
	}
}

// Login exchanges idToken and remembers the session token for clientID
func (m *Manager) Login(ctx context.Context, clientID, idToken string) (domain.Session, error) {
	session, err := m.provider.Exchange(ctx, idToken)
	if err != nil {
		m.logger.Warn("Sign-in failed", zap.String("client_id", clientID), zap.Error(err))
		return domain.Session{}, err
	}

	if err := m.tokens.Save(ctx, clientID, session.Token); err != nil {
		return domain.Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	m.logger.Info("User signed in",
		zap.String("client_id", clientID),
		zap.String("user_id", session.User.ID),
	)
	return session, nil
}

// Restore revalidates the stored session of clientID. A token that is already
// expired is dropped without calling the identity service. Any failure signs
// the client out and yields ErrSessionExpired.
func (m *Manager) Restore(ctx context.Context, clientID string) (domain.Session, error) {
	token, err := m.tokens.Load(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	if m.expired(token) {
		m.logger.Info("Stored session token has expired", zap.String("client_id", clientID))
		m.dropToken(ctx, clientID)
		return domain.Session{}, ErrSessionExpired
	}

	user, err := m.provider.CurrentUser(ctx, token)
	if err != nil {
		m.logger.Info("Session revalidation failed", zap.String("client_id", clientID), zap.Error(err))
		m.dropToken(ctx, clientID)
		return domain.Session{}, ErrSessionExpired
	}

	return domain.Session{Token: token, User: user}, nil
}

// Logout forgets the session token of clientID
func (m *Manager) Logout(ctx context.Context, clientID string) error {
	if err := m.tokens.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	m.logger.Info("User signed out", zap.String("client_id", clientID))
	return nil
}

// expired reports whether token is a JWT whose exp claim lies in the past.
// Opaque tokens are left for the identity service to judge.
func (m *Manager) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := m.parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.Time.After(m.now())
}

func (m *Manager) dropToken(ctx context.Context, clientID string) {
	if err := m.tokens.Delete(ctx, clientID); err != nil {
		m.logger.Error("Failed to drop session token", zap.String("client_id", clientID), zap.Error(err))
	}
}
