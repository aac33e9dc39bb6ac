// Package config assembles runtime configuration from defaults, a .env file,
// the process environment and explicit overrides.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultCatalogSource   = "data/products.json"
	defaultCatalogTimeout  = 10 * time.Second
	defaultSessionCookie   = "stylespot_session"
	defaultSessionIdle     = 30 * time.Minute
	defaultSessionMax      = 10000
	defaultEnvironment     = "local"
	defaultLogLevel        = "info"
	minHashKeyLength       = 32
	generatedKeyLength     = 32
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Catalog     CatalogConfig
	Session     SessionConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port string
	// BaseURL is the public origin used in canonical links and structured data.
	BaseURL         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr is the listen address derived from Port.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// CatalogConfig locates the product catalog.
type CatalogConfig struct {
	Source  string
	Timeout time.Duration
}

// SessionConfig controls the session cookie and the per-session store registry.
type SessionConfig struct {
	CookieName  string
	HashKey     []byte
	BlockKey    []byte
	IdleTimeout time.Duration
	MaxSessions int
	Secure      bool
	// EphemeralKeys reports that no keys were configured and random ones were generated.
	EphemeralKeys bool
}

// Production reports whether the environment is prod.
func (c Config) Production() bool { return c.Environment == "prod" }

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration. Precedence: defaults < .env < environment < explicit map.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	p := parser{lookup: lookup}
	cfg := Config{
		Environment: strings.ToLower(p.string("STYLESPOT_ENV", defaultEnvironment)),
		LogLevel:    strings.ToLower(p.string("LOG_LEVEL", defaultLogLevel)),
		Server: ServerConfig{
			Port:            p.string("STYLESPOT_PORT", p.string("PORT", defaultPort)),
			BaseURL:         p.string("STYLESPOT_BASE_URL", ""),
			ReadTimeout:     p.duration("STYLESPOT_READ_TIMEOUT", "Server.ReadTimeout", defaultReadTimeout),
			WriteTimeout:    p.duration("STYLESPOT_WRITE_TIMEOUT", "Server.WriteTimeout", defaultWriteTimeout),
			IdleTimeout:     p.duration("STYLESPOT_IDLE_TIMEOUT", "Server.IdleTimeout", defaultIdleTimeout),
			ShutdownTimeout: p.duration("STYLESPOT_SHUTDOWN_TIMEOUT", "Server.ShutdownTimeout", defaultShutdownTimeout),
		},
		Catalog: CatalogConfig{
			Source:  p.string("STYLESPOT_CATALOG_SOURCE", defaultCatalogSource),
			Timeout: p.duration("STYLESPOT_CATALOG_TIMEOUT", "Catalog.Timeout", defaultCatalogTimeout),
		},
		Session: SessionConfig{
			CookieName:  p.string("STYLESPOT_SESSION_COOKIE", defaultSessionCookie),
			HashKey:     []byte(p.string("STYLESPOT_SESSION_HASH_KEY", "")),
			BlockKey:    []byte(p.string("STYLESPOT_SESSION_BLOCK_KEY", "")),
			IdleTimeout: p.duration("STYLESPOT_SESSION_IDLE_TIMEOUT", "Session.IdleTimeout", defaultSessionIdle),
			MaxSessions: p.int("STYLESPOT_SESSION_MAX", "Session.MaxSessions", defaultSessionMax),
		},
	}
	cfg.Session.Secure = cfg.Production()

	if len(cfg.Session.HashKey) == 0 && !cfg.Production() {
		cfg.Session.HashKey = randomKey(generatedKeyLength)
		if len(cfg.Session.BlockKey) == 0 {
			cfg.Session.BlockKey = randomKey(generatedKeyLength)
		}
		cfg.Session.EphemeralKeys = true
	}

	if err := validateConfig(cfg, p.invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	missing := append([]string(nil), invalid...)

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.BaseURL != "" {
		if u, err := url.Parse(cfg.Server.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			missing = append(missing, "Server.BaseURL")
		}
	}
	if strings.TrimSpace(cfg.Catalog.Source) == "" {
		missing = append(missing, "Catalog.Source")
	}
	if cfg.Catalog.Timeout <= 0 {
		missing = append(missing, "Catalog.Timeout")
	}
	if len(cfg.Session.HashKey) < minHashKeyLength {
		missing = append(missing, "Session.HashKey")
	}
	switch len(cfg.Session.BlockKey) {
	case 0, 16, 24, 32:
	default:
		missing = append(missing, "Session.BlockKey")
	}
	if cfg.Session.IdleTimeout <= 0 {
		missing = append(missing, "Session.IdleTimeout")
	}
	if cfg.Session.MaxSessions <= 0 {
		missing = append(missing, "Session.MaxSessions")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

// parser reads typed values and records the fields it could not parse.
type parser struct {
	lookup  func(string) (string, bool)
	invalid []string
}

func (p *parser) string(key, fallback string) string {
	if value, ok := p.lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func (p *parser) duration(key, field string, fallback time.Duration) time.Duration {
	value, ok := p.lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		p.invalid = append(p.invalid, field)
		return fallback
	}
	return d
}

func (p *parser) int(key, field string, fallback int) int {
	value, ok := p.lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		p.invalid = append(p.invalid, field)
		return fallback
	}
	return n
}

func randomKey(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("config: generate session key: %v", err))
	}
	return b
}
