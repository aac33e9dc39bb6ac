package testutil

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/LingaMahesh11/Style-Spot/internal/catalog"
	"github.com/LingaMahesh11/Style-Spot/internal/dispatch"
	"github.com/LingaMahesh11/Style-Spot/internal/httpserver"
	"github.com/LingaMahesh11/Style-Spot/internal/render"
	"github.com/LingaMahesh11/Style-Spot/internal/session"
	"github.com/LingaMahesh11/Style-Spot/internal/store"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
)

// Server is a running storefront bound to a loopback listener, with a client that keeps cookies.
type Server struct {
	*httptest.Server
	Client *http.Client
	Stores *store.Registry
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type serverOptions struct {
	products []catalog.Product
	logger   *zap.Logger
	idle     time.Duration
}

// ServerOption customises NewServer.
type ServerOption func(*serverOptions)

// WithProducts seeds the catalog served by the test server.
func WithProducts(products []catalog.Product) ServerOption {
	return func(o *serverOptions) {
		o.products = products
	}
}

// WithLogger routes request logs to logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithSessionIdle overrides the session idle timeout.
func WithSessionIdle(d time.Duration) ServerOption {
	return func(o *serverOptions) {
		o.idle = d
	}
}

// NewServer starts the storefront for integration tests and closes it on cleanup.
func NewServer(t testing.TB, opts ...ServerOption) *Server {
	t.Helper()

	options := serverOptions{idle: 30 * time.Minute}
	for _, opt := range opts {
		opt(&options)
	}

	sessions, err := session.NewManager(session.Config{
		HashKey:     []byte("0123456789abcdef0123456789abcdef"),
		BlockKey:    []byte("abcdef0123456789abcdef0123456789"),
		IdleTimeout: options.idle,
	})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	stores := store.NewRegistry(100, options.idle, nil)
	handlers := dispatch.New(dispatch.Dependencies{
		Index:     catalog.NewIndex(options.products),
		Stores:    stores,
		Templates: render.MustParseTemplates(),
	})

	ts := httptest.NewServer(httpserver.NewRouter(httpserver.Config{
		Logger:           options.logger,
		Handlers:         handlers,
		Sessions:         sessions,
		OnSessionExpired: stores.Discard,
	}))
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := ts.Client()
	client.Jar = jar
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Server{Server: ts, Client: client, Stores: stores}
}

// Get issues a GET, marked as an htmx request when htmx is true.
func (s *Server) Get(t testing.TB, path string, htmx bool) Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return s.do(t, req)
}

// Post submits form values as an htmx request carrying the session's CSRF token.
func (s *Server) Post(t testing.TB, path string, form url.Values) Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.Header.Set(csrfHeaderName, s.CSRFToken(t))
	return s.do(t, req)
}

// CSRFToken returns the token issued to the client, or "" before the first page load.
func (s *Server) CSRFToken(t testing.TB) string {
	t.Helper()
	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	for _, c := range s.Client.Jar.Cookies(u) {
		if c.Name == csrfCookieName {
			return c.Value
		}
	}
	return ""
}

func (s *Server) do(t testing.TB, req *http.Request) Response {
	t.Helper()
	res, err := s.Client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return Response{Status: res.StatusCode, Header: res.Header, Body: body}
}

// Fresh returns a view of the same server with an empty cookie jar, as a second browser would have.
func (s *Server) Fresh(t testing.TB) *Server {
	t.Helper()
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := *s.Client
	client.Jar = jar
	return &Server{Server: s.Server, Client: &client, Stores: s.Stores}
}
