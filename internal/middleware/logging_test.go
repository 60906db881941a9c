package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"attar-store/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newLoggedRouter(restorer SessionRestorer) (http.Handler, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	nop := zap.NewNop()

	r := chi.NewRouter()
	r.Use(LoggingMiddleware(logger))
	r.Get("/health", okHandler)
	r.With(ClientIDMiddleware(nop), SessionMiddleware(restorer, nop)).
		Get("/api/reviews/{productID}", okHandler)
	r.Get("/api/broken", func(w http.ResponseWriter, r *http.Request) {
		RespondWithError(w, http.StatusInternalServerError, "boom")
	})
	return r, logs
}

func TestLoggingRecordsClientAndUser(t *testing.T) {
	clientID := uuid.NewString()
	restorer := &mockRestorer{sessions: map[string]domain.Session{
		clientID: {User: domain.User{ID: "user-7", Email: "amina@example.com"}, Token: "t"},
	}}
	router, logs := newLoggedRouter(restorer)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/p1", nil)
	req.Header.Set(ClientIDHeader, " "+strings.ToUpper(clientID))
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "Request completed", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/reviews/{productID}", fields["route"])
	assert.Equal(t, clientID, fields["client_id"])
	assert.Equal(t, "user-7", fields["user_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestLoggingAnonymousRequest(t *testing.T) {
	router, logs := newLoggedRouter(&mockRestorer{})

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/p1", nil)
	req.Header.Set(ClientIDHeader, uuid.NewString())
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Contains(t, fields, "client_id")
	assert.NotContains(t, fields, "user_id")
}

func TestLoggingLevelFollowsStatus(t *testing.T) {
	router, logs := newLoggedRouter(&mockRestorer{})

	tests := []struct {
		name  string
		path  string
		level zapcore.Level
	}{
		{"health probe", "/health", zapcore.DebugLevel},
		{"missing client id", "/api/reviews/p1", zapcore.WarnLevel},
		{"server error", "/api/broken", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			entries := logs.TakeAll()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.NotContains(t, entries[0].ContextMap(), "client_id")
		})
	}
}
