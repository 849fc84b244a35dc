package routerhandlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vitalvas/simplerouter/router"
)

// newTestRegistry returns a registry serving f on GET /test.
func newTestRegistry(f router.Func) *router.Registry {
	reg := router.NewRegistry()
	reg.HandleFunc("/test", f, http.MethodGet)
	return reg
}

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func decodeJSON(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}
