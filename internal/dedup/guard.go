// Package dedup rejects a transfer request identical to one admitted within
// the debounce window.
package dedup

import (
	"context"
	"sync"
	"time"

	"funds-transfer/internal/errors"
)

// DefaultWindow is how long an admitted key blocks identical requests.
const DefaultWindow = 5 * time.Second

// Guard is the process-local debounce set. Admit is an atomic test-and-set:
// of any number of concurrent calls with one key, exactly one is admitted.
type Guard struct {
	mu        sync.Mutex
	entries   map[string]time.Time
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type Option func(*Guard)

// WithClock replaces time.Now, letting tests move time without sleeping.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

func NewGuard(window time.Duration, opts ...Option) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}

	g := &Guard{
		entries: make(map[string]time.Time),
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.lastSweep = g.now()

	return g
}

// Admit records key until now+window, or returns ErrDebounceRequest if an
// unexpired entry for key already exists. A rejected call changes nothing.
func (g *Guard) Admit(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweep(now)

	if expiresAt, ok := g.entries[key]; ok && now.Before(expiresAt) {
		return errors.ErrDebounceRequest
	}

	g.entries[key] = now.Add(g.window)
	return nil
}

// Len reports the number of entries currently held, expired or not.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// sweep drops expired entries at most once per window. Caller holds g.mu.
func (g *Guard) sweep(now time.Time) {
	if now.Sub(g.lastSweep) < g.window {
		return
	}
	for key, expiresAt := range g.entries {
		if !now.Before(expiresAt) {
			delete(g.entries, key)
		}
	}
	g.lastSweep = now
}
