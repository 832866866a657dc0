// Package session keeps one state store per browser session. A session is
// identified by an opaque cookie value and bootstraps its auth and settings
// slices in the background when first seen.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
	"github.com/ratify/ratify-web/internal/core/view"
)

// maxToasts bounds the pending toast queue of a session.
const maxToasts = 8

// Session is the server-side half of one browser session.
type Session struct {
	ID     string
	Store  *state.Store
	Tokens ports.TokenStore
	Cards  *view.CardSet

	ready       chan struct{}
	unsubscribe func()

	mu       sync.Mutex
	lastSeen time.Time
	toasts   []view.Toast
}

func newSession(id string, tokens ports.TokenStore, now time.Time) *Session {
	return &Session{
		ID:       id,
		Store:    state.NewStore(),
		Tokens:   tokens,
		Cards:    view.NewCardSet(),
		ready:    make(chan struct{}),
		lastSeen: now,
	}
}

// moveTo hands the state of s to a session under another id. Pending toasts
// go with it.
func (s *Session) moveTo(id string, tokens ports.TokenStore, now time.Time) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := &Session{
		ID:       id,
		Store:    s.Store,
		Tokens:   tokens,
		Cards:    s.Cards,
		ready:    s.ready,
		lastSeen: now,
		toasts:   s.toasts,
	}
	s.toasts = nil
	return next
}

// WaitReady blocks until the bootstrap refresh finished or ctx is done.
func (s *Session) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether bootstrap finished.
func (s *Session) Ready() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Notify queues a toast for the next rendered page. The oldest toast is
// dropped when the queue is full.
func (s *Session) Notify(t view.Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.toasts) == maxToasts {
		s.toasts = s.toasts[1:]
	}
	s.toasts = append(s.toasts, t)
}

// DrainToasts returns and clears the pending toasts.
func (s *Session) DrainToasts() []view.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.toasts
	s.toasts = nil
	return out
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
