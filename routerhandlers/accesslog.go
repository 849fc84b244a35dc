package routerhandlers

import (
	"log/slog"
	"net/http"
	"slices"
	"time"
)

// AccessLogConfig configures the access log middleware behaviour.
type AccessLogConfig struct {
	// Logger receives one Info record per request. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// SkipPaths lists request paths that are not logged.
	SkipPaths []string

	// SlowThreshold, when greater than zero, logs requests taking at
	// least this long at Warn level instead of Info.
	SlowThreshold time.Duration
}

// AccessLogMiddleware returns a middleware that logs method, path, status,
// response size, duration and, when RequestIDMiddleware runs before it,
// the request ID.
func AccessLogMiddleware(cfg AccessLogConfig) Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(cfg.SkipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			level := slog.LevelInfo
			if cfg.SlowThreshold > 0 && elapsed >= cfg.SlowThreshold {
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int("bytes", rec.written),
				slog.Duration("duration", elapsed),
			}
			if id := RequestIDFromContext(r.Context()); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}

			logger.LogAttrs(r.Context(), level, "request", attrs...)
		})
	}
}

// statusRecorder captures the status code and body size written by the
// wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	n, err := s.ResponseWriter.Write(b)
	s.written += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
