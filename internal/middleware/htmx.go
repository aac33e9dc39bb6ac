package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// HTMXInfo captures request metadata from HX-* headers.
type HTMXInfo struct {
	IsHTMX      bool
	CurrentURL  string
	Target      string
	TriggerID   string
	TriggerName string
}

// HTMX annotates the context with the HX-* headers of the request.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxKeyHTMX, readHTMXInfo(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HTMXInfoFromContext retrieves HTMX metadata; zero value if absent.
func HTMXInfoFromContext(ctx context.Context) HTMXInfo {
	v, _ := ctx.Value(ctxKeyHTMX).(HTMXInfo)
	return v
}

// IsHTMX returns whether this is an htmx request
func IsHTMX(ctx context.Context) bool {
	return HTMXInfoFromContext(ctx).IsHTMX
}

// RequireHTMX returns 404 for fragment routes reached by direct navigation.
func RequireHTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsHTMX(r.Context()) {
			http.NotFound(w, r)
			return
		}
		w.Header().Add("Vary", "HX-Request")
		next.ServeHTTP(w, r)
	})
}

func readHTMXInfo(r *http.Request) HTMXInfo {
	return HTMXInfo{
		IsHTMX:      strings.EqualFold(r.Header.Get("HX-Request"), "true"),
		CurrentURL:  r.Header.Get("HX-Current-URL"),
		Target:      r.Header.Get("HX-Target"),
		TriggerID:   r.Header.Get("HX-Trigger"),
		TriggerName: r.Header.Get("HX-Trigger-Name"),
	}
}

// logFields describes an htmx request for the request log.
func (i HTMXInfo) logFields() []zap.Field {
	if !i.IsHTMX {
		return nil
	}
	return []zap.Field{
		zap.String("hx_target", i.Target),
		zap.String("hx_trigger", i.TriggerID),
		zap.String("hx_trigger_name", i.TriggerName),
		zap.String("hx_current_url", i.CurrentURL),
	}
}
