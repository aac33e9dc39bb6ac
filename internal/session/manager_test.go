package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newManager(t *testing.T, clock *testClock) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		CookieName:  "test_session",
		HashKey:     []byte("12345678901234567890123456789012"),
		BlockKey:    []byte("abcdefghijklmnopqrstuvwxyzABCDEF"),
		IdleTimeout: 5 * time.Minute,
		Now:         clock.Now,
	})
	require.NoError(t, err)
	return m
}

func roundTrip(t *testing.T, m *Manager, sess *Session) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, sess))
	for _, c := range rec.Result().Cookies() {
		if c.Name == m.CookieName() {
			return c
		}
	}
	t.Fatalf("cookie %s not written", m.CookieName())
	return nil
}

func TestNewManagerValidates(t *testing.T) {
	_, err := NewManager(Config{})
	require.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = NewManager(Config{HashKey: []byte("k"), BlockKey: []byte("short")})
	require.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadWithoutCookieStartsSession(t *testing.T) {
	m := newManager(t, &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)})
	sess, err := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Empty(t, sess.CSRFToken())

	_, err = ulid.Parse(sess.ID())
	require.NoError(t, err, "session IDs are ULIDs")
}

func TestSessionRoundTrip(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := newManager(t, clock)

	sess := m.New()
	token, err := sess.EnsureCSRFToken()
	require.NoError(t, err)
	cookie := roundTrip(t, m, sess)
	require.True(t, cookie.HttpOnly)

	clock.now = clock.now.Add(2 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	loaded, err := m.Load(req)
	require.NoError(t, err)
	require.Equal(t, sess.ID(), loaded.ID())
	require.Equal(t, token, loaded.CSRFToken())
}

func TestIdleSessionExpires(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := newManager(t, clock)
	sess := m.New()
	cookie := roundTrip(t, m, sess)

	clock.now = clock.now.Add(6 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	expired, err := m.Load(req)
	require.ErrorIs(t, err, ErrExpired)
	require.Equal(t, sess.ID(), expired.ID(), "expired session still reports its ID")
}

func TestTamperedCookieStartsFresh(t *testing.T) {
	m := newManager(t, &testClock{now: time.Now()})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "forged"})
	sess, err := m.Load(req)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID())
}

func TestSaveRefreshesActivity(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := newManager(t, clock)
	sess := m.New()
	cookie := roundTrip(t, m, sess)

	// each save moves the idle window forward
	for i := 0; i < 3; i++ {
		clock.now = clock.now.Add(4 * time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		loaded, err := m.Load(req)
		require.NoError(t, err)
		require.Equal(t, sess.ID(), loaded.ID())
		cookie = roundTrip(t, m, loaded)
	}
}
