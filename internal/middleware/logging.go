package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const requestLogKey contextKey = "request_log"

// requestLog collects who made a request while it passes through the inner middlewares
type requestLog struct {
	clientID string
	userID   string
}

func annotate(ctx context.Context, fn func(*requestLog)) {
	if rl, ok := ctx.Value(requestLogKey).(*requestLog); ok {
		fn(rl)
	}
}

// LoggingMiddleware writes one line per request with the matched route, the
// client that sent it and the signed-in user, if any. Server errors log at
// error level, client errors at warn and health probes at debug.
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rl := &requestLog{}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestLogKey, rl)))

			fields := []zap.Field{
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("route", routePattern(r)),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			if rl.clientID != "" {
				fields = append(fields, zap.String("client_id", rl.clientID))
			}
			if rl.userID != "" {
				fields = append(fields, zap.String("user_id", rl.userID))
			}

			logger.Log(requestLevel(r.URL.Path, ww.Status()), "Request completed", fields...)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func requestLevel(path string, status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	case path == "/health":
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}
