package routerhandlers

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/vitalvas/simplerouter/router"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger receives one Error record per recovered panic. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Stack adds the goroutine stack trace to the log record.
	Stack bool
}

// RecoveryMiddleware returns a middleware that recovers from panics
// raised while the registry dispatches a request, route handlers and
// fallbacks included. The panic is logged with the request method, path
// and, when RequestIDMiddleware runs before it, the request ID.
//
// If the handler has not started the response, the client gets a 500
// with a router.ErrorResponse body. http.ErrAbortHandler is re-panicked
// so the server aborts the connection.
func RecoveryMiddleware(cfg RecoveryConfig) Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				attrs := []slog.Attr{
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", v),
				}
				if id := RequestIDFromContext(r.Context()); id != "" {
					attrs = append(attrs, slog.String("request_id", id))
				}
				if cfg.Stack {
					attrs = append(attrs, slog.String("stack", string(debug.Stack())))
				}
				logger.LogAttrs(r.Context(), slog.LevelError, "router: handler panic", attrs...)

				if rec.wroteHeader {
					return
				}

				router.ResponseError(w, http.StatusInternalServerError, router.ErrorResponse{
					Code:   "internal_error",
					Path:   r.URL.Path,
					Method: r.Method,
				})
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
