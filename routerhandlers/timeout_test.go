package routerhandlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/simplerouter/router"
)

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("config validation", func(t *testing.T) {
		tests := []struct {
			name    string
			config  TimeoutConfig
			wantErr error
		}{
			{"zero duration", TimeoutConfig{Duration: 0}, ErrInvalidTimeout},
			{"negative duration", TimeoutConfig{Duration: -1 * time.Second}, ErrInvalidTimeout},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := TimeoutMiddleware(tt.config)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}

		t.Run("valid duration", func(t *testing.T) {
			_, err := TimeoutMiddleware(TimeoutConfig{Duration: time.Second})
			assert.NoError(t, err)
		})
	})

	t.Run("run completes before timeout", func(t *testing.T) {
		mw, err := TimeoutMiddleware(TimeoutConfig{Duration: 2 * time.Second})
		require.NoError(t, err)

		h := mw(newTestRegistry(func(w http.ResponseWriter, r *http.Request, _ []string) {
			_, ok := r.Context().Deadline()
			assert.True(t, ok)

			w.Header().Set("X-Page", "16")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("ok"))
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "16", w.Header().Get("X-Page"))
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("implicit 200", func(t *testing.T) {
		mw, err := TimeoutMiddleware(TimeoutConfig{Duration: time.Second})
		require.NoError(t, err)

		h := mw(newTestRegistry(func(http.ResponseWriter, *http.Request, []string) {}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("fallback runs inside the bound", func(t *testing.T) {
		mw, err := TimeoutMiddleware(TimeoutConfig{Duration: time.Second})
		require.NoError(t, err)

		reg := newTestRegistry(func(http.ResponseWriter, *http.Request, []string) {})
		reg.SetNoMatchHandler(router.Func(func(w http.ResponseWriter, _ *http.Request, args []string) {
			router.ResponseError(w, http.StatusNotFound, router.ErrorResponse{Code: "not_found", Path: args[0]})
		}))

		w := httptest.NewRecorder()
		mw(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing/", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "/missing", decodeJSON(t, w.Body.Bytes())["path"])
	})

	t.Run("run exceeds timeout", func(t *testing.T) {
		var buf bytes.Buffer
		mw, err := TimeoutMiddleware(TimeoutConfig{
			Duration: 20 * time.Millisecond,
			Logger:   newJSONLogger(&buf),
		})
		require.NoError(t, err)

		writeErr := make(chan error, 1)
		h := mw(newTestRegistry(func(w http.ResponseWriter, r *http.Request, _ []string) {
			<-r.Context().Done()
			time.Sleep(10 * time.Millisecond)
			_, err := w.Write([]byte("late"))
			writeErr <- err
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"code":"timeout","message":"Service Unavailable","path":"/test","method":"GET"}`, w.Body.String())

		rec := decodeJSON(t, buf.Bytes())
		assert.Equal(t, "WARN", rec["level"])
		assert.Equal(t, "router: request timed out", rec["msg"])
		assert.Equal(t, "/test", rec["path"])

		select {
		case err := <-writeErr:
			assert.ErrorIs(t, err, http.ErrHandlerTimeout)
		case <-time.After(time.Second):
			t.Fatal("handler did not return")
		}
	})

	t.Run("canceled client gets no reply", func(t *testing.T) {
		var buf bytes.Buffer
		mw, err := TimeoutMiddleware(TimeoutConfig{Duration: time.Second, Logger: newJSONLogger(&buf)})
		require.NoError(t, err)

		h := mw(newTestRegistry(func(_ http.ResponseWriter, r *http.Request, _ []string) {
			<-r.Context().Done()
		}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx))

		assert.False(t, w.Flushed)
		assert.Empty(t, w.Body.String())
		assert.Empty(t, buf.String())
	})

	t.Run("panic reaches recovery", func(t *testing.T) {
		mw, err := TimeoutMiddleware(TimeoutConfig{Duration: time.Second})
		require.NoError(t, err)

		var buf bytes.Buffer
		h := RecoveryMiddleware(RecoveryConfig{Logger: newJSONLogger(&buf)})(mw(newTestRegistry(func(_ http.ResponseWriter, _ *http.Request, _ []string) {
			panic("in run")
		})))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "in run", decodeJSON(t, buf.Bytes())["panic"])
	})
}
