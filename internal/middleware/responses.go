package middleware

import (
	"encoding/json"
	"net/http"

	chiMid "github.com/go-chi/chi/v5/middleware"
)

const requestIDHeader = "X-Request-Id"

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError answers htmx requests with a JSON body and others with plain text.
// The request ID, when present, is echoed in a header and in JSON bodies.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	reqID := chiMid.GetReqID(r.Context())
	if reqID != "" {
		w.Header().Set(requestIDHeader, reqID)
	}
	if IsHTMX(r.Context()) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, RequestID: reqID})
		return
	}
	http.Error(w, msg, code)
}
