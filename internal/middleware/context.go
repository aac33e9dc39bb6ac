package middleware

import (
	"context"

	"github.com/LingaMahesh11/Style-Spot/internal/session"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyHTMX    ctxKey = "htmx"
	ctxKeySession ctxKey = "session"
	ctxKeyCSRF    ctxKey = "csrf"
)

// WithSession stores the request session in ctx.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

// SessionFromContext retrieves the session attached to this request.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(ctxKeySession).(*session.Session)
	return s, ok && s != nil
}

// SessionID returns the current session identifier, or "" outside the Session middleware.
func SessionID(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.ID()
	}
	return ""
}

// WithCSRFToken stores the token issued for this request.
func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeyCSRF, token)
}

// CSRFToken returns the token to embed in pages (meta tag, hx-headers).
func CSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyCSRF).(string)
	return v
}
