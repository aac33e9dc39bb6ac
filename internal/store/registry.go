package store

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// EvictFunc is notified when a session store leaves the registry.
type EvictFunc func(sessionID string)

// Registry maps session identifiers to stores. Stores that are not touched for
// the idle timeout, or that fall out of the size bound, are discarded.
type Registry struct {
	mu     sync.Mutex
	stores *expirable.LRU[string, *Store]
}

// NewRegistry builds a registry holding at most size stores (0 means unbounded)
// that each live idle after their last access (0 means forever).
func NewRegistry(size int, idle time.Duration, onEvict EvictFunc) *Registry {
	var cb expirable.EvictCallback[string, *Store]
	if onEvict != nil {
		cb = func(key string, _ *Store) { onEvict(key) }
	}
	return &Registry{stores: expirable.NewLRU[string, *Store](size, cb, idle)}
}

// Get returns the store for a session, creating an empty one on first use.
// Every access restarts the idle timer.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores.Get(sessionID)
	if !ok {
		s = New()
	}
	r.stores.Add(sessionID, s)
	return s
}

// Peek returns an existing store without creating or refreshing it.
func (r *Registry) Peek(sessionID string) (*Store, bool) {
	return r.stores.Peek(sessionID)
}

// Discard drops a session's store.
func (r *Registry) Discard(sessionID string) {
	r.stores.Remove(sessionID)
}

// Len reports how many stores are live.
func (r *Registry) Len() int {
	return r.stores.Len()
}
