package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistryReturnsSameStorePerSession(t *testing.T) {
	r := NewRegistry(8, time.Minute, nil)

	a := r.Get("session-a")
	a.AddToCart(line("x", 100, 1))
	require.Same(t, a, r.Get("session-a"))
	require.Equal(t, 1, r.Get("session-a").CartCount())

	b := r.Get("session-b")
	require.NotSame(t, a, b)
	require.Zero(t, b.CartCount())
	require.Equal(t, 2, r.Len())
}

func TestRegistryDiscard(t *testing.T) {
	var mu sync.Mutex
	var evicted []string
	r := NewRegistry(8, time.Minute, func(id string) {
		mu.Lock()
		defer mu.Unlock()
		evicted = append(evicted, id)
	})

	r.Get("gone").AddToCart(line("x", 100, 1))
	r.Discard("gone")

	_, ok := r.Peek("gone")
	require.False(t, ok)
	require.Zero(t, r.Get("gone").CartCount(), "a discarded session starts empty")

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"gone"}, evicted)
}

func TestRegistrySizeBound(t *testing.T) {
	r := NewRegistry(2, time.Minute, nil)
	r.Get("one")
	r.Get("two")
	r.Get("three")

	require.Equal(t, 2, r.Len())
	_, ok := r.Peek("one")
	require.False(t, ok, "least recently used session is evicted")
}

func TestRegistryIdleExpiry(t *testing.T) {
	r := NewRegistry(8, 50*time.Millisecond, nil)
	r.Get("idle").AddToCart(line("x", 100, 1))

	require.Eventually(t, func() bool {
		_, ok := r.Peek("idle")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}
