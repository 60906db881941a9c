// Package auth delegates sign-in to the external identity service and keeps the
// resulting session token in client storage.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"attar-store/internal/domain"

	"go.uber.org/zap"
)

var (
	ErrAuthUnavailable = errors.New("authentication service unavailable")
	ErrSessionExpired  = errors.New("session expired")
	ErrNoSession       = errors.New("no active session")
)

const defaultLoginFailure = "Google Sign-In failed"

// LoginError carries the identity service's reason for refusing a sign-in
type LoginError struct {
	Status  int
	Message string
}

func (e *LoginError) Error() string {
	return e.Message
}

// Provider exchanges identity-provider credentials for sessions
type Provider interface {
	Exchange(ctx context.Context, idToken string) (domain.Session, error)
	CurrentUser(ctx context.Context, token string) (domain.User, error)
}

// Client talks to the identity service over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the auth API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type exchangeRequest struct {
	IDToken string `json:"idToken"`
}

type exchangeResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
	Msg   string      `json:"msg"`
}

// Exchange trades an identity-provider token for a session
func (c *Client) Exchange(ctx context.Context, idToken string) (domain.Session, error) {
	body, err := json.Marshal(exchangeRequest{IDToken: idToken})
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/google-login", bytes.NewReader(body))
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Identity service unreachable", zap.Error(err))
		return domain.Session{}, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		c.logger.Warn("Identity service returned non-JSON response",
			zap.Int("status", resp.StatusCode),
			zap.String("content_type", resp.Header.Get("Content-Type")),
		)
		return domain.Session{}, ErrAuthUnavailable
	}

	var data exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.Session{}, fmt.Errorf("%w: failed to decode login response: %v", ErrAuthUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := data.Msg
		if msg == "" {
			msg = defaultLoginFailure
		}
		return domain.Session{}, &LoginError{Status: resp.StatusCode, Message: msg}
	}

	if data.Token == "" {
		return domain.Session{}, fmt.Errorf("%w: login response without token", ErrAuthUnavailable)
	}

	return domain.Session{Token: data.Token, User: data.User}, nil
}

// CurrentUser fetches the profile behind token. Any failure means the session is over.
func (c *Client) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to build user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.User{}, fmt.Errorf("%w: status %d", ErrSessionExpired, resp.StatusCode)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return domain.User{}, fmt.Errorf("%w: failed to decode user: %v", ErrSessionExpired, err)
	}
	return user, nil
}
