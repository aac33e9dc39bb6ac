// Package httpserver assembles the router and middleware stack of the storefront.
package httpserver

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/LingaMahesh11/Style-Spot/internal/dispatch"
	"github.com/LingaMahesh11/Style-Spot/internal/middleware"
)

const (
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 60 * time.Second
	defaultRequestTimeout = 30 * time.Second
	staticPrefix          = "/static"
)

// Config holds runtime options for the storefront HTTP server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Logger   *zap.Logger
	Handlers *dispatch.Handlers
	Static   fs.FS

	Sessions         middleware.SessionStore
	OnSessionExpired func(sessionID string)
	CSRFCookieName   string
	CSRFHeaderName   string
	CSRFCookieSecure bool
}

// New constructs the HTTP server with the middleware stack and embedded assets.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      NewRouter(cfg),
		ReadTimeout:  durationOr(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: durationOr(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  durationOr(cfg.IdleTimeout, defaultIdleTimeout),
	}
}

// NewRouter builds the routing tree without binding a listener.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Sessions == nil {
		panic("httpserver: session store is required")
	}
	handlers := cfg.Handlers
	if handlers == nil {
		handlers = dispatch.New(dispatch.Dependencies{})
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.InjectLogger(logger))
	router.Use(middleware.Logger)
	router.Use(chimw.Recoverer)
	router.Use(middleware.HTMX)
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(defaultRequestTimeout))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.Static != nil {
		router.Handle(staticPrefix+"/*", middleware.AssetsWithCache(cfg.Static, staticPrefix))
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Sessions, cfg.OnSessionExpired))
		r.Use(middleware.CSRF(middleware.CSRFConfig{
			CookieName: cfg.CSRFCookieName,
			HeaderName: cfg.CSRFHeaderName,
			Secure:     cfg.CSRFCookieSecure,
		}))
		handlers.Routes(r)
	})

	return router
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
