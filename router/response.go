package router

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// ResponseJSON writes the status code and, unless v is nil, v encoded as
// JSON with Content-Type "application/json; charset=utf-8".
// If encoding fails, an HTTP 500 Internal Server Error is written instead.
func ResponseJSON(w http.ResponseWriter, code int, v any) {
	if v == nil {
		w.WriteHeader(code)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

// ErrorResponse is the JSON body of error replies written by fallback
// handlers and serving wrappers.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Method  string `json:"method,omitempty"`
}

// ResponseError writes e as JSON with the given status code. An empty
// Message is replaced by the status text of code.
func ResponseError(w http.ResponseWriter, code int, e ErrorResponse) {
	if e.Message == "" {
		e.Message = http.StatusText(code)
	}

	ResponseJSON(w, code, e)
}
