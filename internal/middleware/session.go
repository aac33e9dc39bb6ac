package middleware

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/LingaMahesh11/Style-Spot/internal/observability"
	"github.com/LingaMahesh11/Style-Spot/internal/session"
)

// SessionStore abstracts the session manager for middleware integration.
type SessionStore interface {
	Load(*http.Request) (*session.Session, error)
	New() *session.Session
	Save(http.ResponseWriter, *session.Session) error
}

// Session loads or starts the browser session, stores it in the request
// context and writes the cookie just before the response header goes out.
// onExpired receives the ID of a session that idled out.
func Session(store SessionStore, onExpired func(id string)) func(http.Handler) http.Handler {
	if store == nil {
		panic("session store is required")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := observability.FromContext(r.Context())
			sess, err := store.Load(r)
			switch {
			case errors.Is(err, session.ErrExpired):
				if sess != nil {
					logger.Info("session expired", zap.String("session", sess.ID()))
					if onExpired != nil {
						onExpired(sess.ID())
					}
				}
				sess = store.New()
			case err != nil || sess == nil:
				if err != nil {
					logger.Warn("session load failed", zap.Error(err))
				}
				sess = store.New()
			}

			rw := NewResponseRecorder(w)
			rw.SetBeforeWrite(func(hw http.ResponseWriter) {
				if err := store.Save(hw, sess); err != nil {
					logger.Error("session save failed", zap.Error(err))
				}
			})

			ctx := observability.WithLogger(r.Context(), logger.With(zap.String("session", sess.ID())))
			next.ServeHTTP(rw, r.WithContext(WithSession(ctx, sess)))

			if !rw.Wrote() {
				rw.WriteHeader(http.StatusOK)
			}
		})
	}
}
