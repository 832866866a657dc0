// Package state holds the per-session application state: an immutable
// snapshot of the auth and settings slices that only the actions declared in
// this package can replace.
package state

import (
	"sync"

	"github.com/ratify/ratify-web/internal/core/domain"
)

// Auth is the session slice.
type Auth struct {
	IsAuthenticated bool
	Loading         bool
	User            *domain.User
	Tokens          domain.Tokens
}

// Snapshot is one immutable version of the whole state.
type Snapshot struct {
	Version  uint64
	Auth     Auth
	Settings domain.Settings
}

// Action is a state transition. The set is closed: apply is unexported.
type Action interface {
	apply(Snapshot) Snapshot
}

// Store serialises actions and hands out snapshots.
type Store struct {
	mu       sync.RWMutex
	snap     Snapshot
	nextSub  int
	watchers map[int]func(Snapshot)
}

// NewStore returns a store with the session still loading and default
// settings.
func NewStore() *Store {
	return &Store{
		snap: Snapshot{
			Auth:     Auth{Loading: true},
			Settings: domain.DefaultSettings(),
		},
		watchers: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state. The value must be treated as read-only.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Dispatch applies a and notifies watchers with the resulting snapshot.
func (s *Store) Dispatch(a Action) Snapshot {
	s.mu.Lock()
	next := a.apply(s.snap)
	next.Version = s.snap.Version + 1
	s.snap = next
	watchers := make([]func(Snapshot), 0, len(s.watchers))
	for _, w := range s.watchers {
		watchers = append(watchers, w)
	}
	s.mu.Unlock()

	for _, w := range watchers {
		w(next)
	}
	return next
}

// Subscribe registers fn for every future snapshot and returns the
// unsubscribe func.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.watchers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// Selectors.

// Authenticated is the route gate predicate: a session still loading counts
// as signed in.
func (s Snapshot) Authenticated() bool {
	return s.Auth.IsAuthenticated || s.Auth.Loading
}

// AccessToken returns the bearer token, empty when signed out.
func (s Snapshot) AccessToken() string {
	return s.Auth.Tokens.Access
}

// UserName returns the display name of the signed-in user.
func (s Snapshot) UserName() string {
	if s.Auth.User == nil {
		return ""
	}
	return s.Auth.User.Name()
}

// BodyClass is the direction class put on the document body.
func (s Snapshot) BodyClass() string {
	if s.Settings.Direction == domain.RTL {
		return "rtl"
	}
	return "ltr"
}
