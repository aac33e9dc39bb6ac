package middleware

import (
	"net/http"
	"time"
)

// CSRFConfig controls cookie/header behaviour.
type CSRFConfig struct {
	CookieName string
	HeaderName string
	MaxAge     time.Duration
	Secure     bool
}

// CSRF ties a token to the session and issues it as a double-submit cookie.
// Unsafe methods must echo the token in the header and carry the cookie.
// It must run inside Session.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "csrf_token"
	}
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-CSRF-Token"
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				WriteError(w, r, http.StatusInternalServerError, "session unavailable")
				return
			}
			token, err := sess.EnsureCSRFToken()
			if err != nil {
				WriteError(w, r, http.StatusInternalServerError, "csrf token error")
				return
			}

			if c, err := r.Cookie(cookieName); err != nil || c.Value != token {
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(maxAge.Seconds()),
				})
			}

			if !isSafeMethod(r.Method) {
				if hdr := r.Header.Get(headerName); hdr == "" || hdr != token {
					WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
				if c, err := r.Cookie(cookieName); err != nil || c.Value != token {
					WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithCSRFToken(r.Context(), token)))
		})
	}
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
