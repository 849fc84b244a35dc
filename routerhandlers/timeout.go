package routerhandlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/vitalvas/simplerouter/router"
)

// ErrInvalidTimeout is returned when TimeoutConfig.Duration is not greater
// than zero.
var ErrInvalidTimeout = errors.New("timeout: duration must be greater than zero")

// TimeoutConfig configures the Timeout middleware behaviour.
type TimeoutConfig struct {
	// Duration is the maximum time allowed for a registry run, route
	// handlers and fallbacks included. Must be greater than zero.
	Duration time.Duration

	// Logger receives one Warn record per timed-out request. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// TimeoutMiddleware returns a middleware that bounds a registry run to
// Duration. The run gets a request context with that deadline and writes
// into a buffer; the buffered response is sent when the run finishes in
// time. Otherwise the client gets a 503 with a router.ErrorResponse body
// and later writes from the run fail with http.ErrHandlerTimeout.
//
// A panic in the run is re-raised on the serving goroutine, so
// RecoveryMiddleware placed outside still sees it.
//
// It returns ErrInvalidTimeout if Duration is not greater than zero.
func TimeoutMiddleware(cfg TimeoutConfig) (Middleware, error) {
	if cfg.Duration <= 0 {
		return nil, ErrInvalidTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), cfg.Duration)
			defer cancel()

			tw := &timeoutWriter{header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if v := recover(); v != nil {
						panicked <- v
						return
					}
					close(done)
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case v := <-panicked:
				panic(v)

			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()

				maps.Copy(w.Header(), tw.header)
				w.WriteHeader(statusOrOK(tw.code))
				w.Write(tw.buf.Bytes())

			case <-ctx.Done():
				tw.mu.Lock()
				tw.timedOut = true
				tw.mu.Unlock()

				if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					// The client went away; there is nobody to answer.
					return
				}

				logger.LogAttrs(r.Context(), slog.LevelWarn, "router: request timed out",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", cfg.Duration),
				)

				router.ResponseError(w, http.StatusServiceUnavailable, router.ErrorResponse{
					Code:   "timeout",
					Path:   r.URL.Path,
					Method: r.Method,
				})
			}
		})
	}, nil
}

func statusOrOK(code int) int {
	if code == 0 {
		return http.StatusOK
	}
	return code
}

// timeoutWriter buffers the response of a bounded run.
type timeoutWriter struct {
	mu       sync.Mutex
	header   http.Header
	buf      bytes.Buffer
	code     int
	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.code != 0 {
		return
	}
	tw.code = code
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}

	return tw.buf.Write(b)
}
