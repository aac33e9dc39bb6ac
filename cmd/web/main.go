package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/LingaMahesh11/Style-Spot/internal/catalog"
	"github.com/LingaMahesh11/Style-Spot/internal/config"
	"github.com/LingaMahesh11/Style-Spot/internal/dispatch"
	"github.com/LingaMahesh11/Style-Spot/internal/httpserver"
	"github.com/LingaMahesh11/Style-Spot/internal/observability"
	"github.com/LingaMahesh11/Style-Spot/internal/render"
	"github.com/LingaMahesh11/Style-Spot/internal/session"
	"github.com/LingaMahesh11/Style-Spot/internal/store"
	"github.com/LingaMahesh11/Style-Spot/public"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stylespot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var (
		addr   string
		source string
	)
	flag.StringVar(&addr, "addr", cfg.Server.Addr(), "HTTP listen address")
	flag.StringVar(&source, "catalog", cfg.Catalog.Source, "catalog location (path, file://, http(s):// or gs://)")
	flag.Parse()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Session.EphemeralKeys {
		logger.Warn("session keys not configured; generated ephemeral keys", zap.String("env", cfg.Environment))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	index := loadIndex(ctx, logger, source, cfg.Catalog.Timeout)

	stores := store.NewRegistry(cfg.Session.MaxSessions, cfg.Session.IdleTimeout, func(id string) {
		logger.Debug("session store released", zap.String("session", id))
	})

	sessions, err := session.NewManager(session.Config{
		CookieName:   cfg.Session.CookieName,
		HashKey:      cfg.Session.HashKey,
		BlockKey:     cfg.Session.BlockKey,
		CookieSecure: cfg.Session.Secure,
		IdleTimeout:  cfg.Session.IdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("init sessions: %w", err)
	}

	templates, err := render.ParseTemplates()
	if err != nil {
		return err
	}

	static, err := public.StaticFS()
	if err != nil {
		return fmt.Errorf("embed static: %w", err)
	}

	srv := httpserver.New(httpserver.Config{
		Address:      addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Logger:       logger,
		Handlers: dispatch.New(dispatch.Dependencies{
			Index:     index,
			Stores:    stores,
			Templates: templates,
			BaseURL:   cfg.Server.BaseURL,
		}),
		Static:           static,
		Sessions:         sessions,
		OnSessionExpired: stores.Discard,
		CSRFCookieSecure: cfg.Session.Secure,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("storefront listening",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.Int("products", index.Len()),
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("storefront stopped")
	return nil
}

// loadIndex performs the single catalog read. A failed load is reported and
// the storefront starts with an empty catalog.
func loadIndex(ctx context.Context, logger *zap.Logger, source string, timeout time.Duration) *catalog.Index {
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	products, err := catalog.NewLoader(source, catalog.WithTimeout(timeout)).Load(loadCtx)
	if err != nil {
		fields := []zap.Field{zap.String("catalog.source", source), zap.Error(err)}
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			fields = append(fields, zap.String("op", loadErr.Op))
		}
		logger.Error("catalog load failed", fields...)
		return catalog.NewIndex(nil)
	}

	logger.Info("catalog loaded", zap.String("catalog.source", source), zap.Int("products", len(products)))
	return catalog.NewIndex(products)
}
