package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/api/metrics"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
)

const (
	defaultIdleTTL          = 30 * time.Minute
	defaultBootstrapTimeout = 15 * time.Second
)

// Bootstrapper restores the auth slice of a new session.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, st *state.Store, tokens ports.TokenStore)
}

// SettingsLoader restores the settings slice of a new session.
type SettingsLoader interface {
	Load(ctx context.Context, st *state.Store, clientID string)
}

// Manager owns the in-memory sessions. It is safe for concurrent use.
type Manager struct {
	vault    ports.TokenVault
	auth     Bootstrapper
	settings SettingsLoader
	idleTTL  time.Duration
	bootTTL  time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// Option customises a Manager.
type Option func(*Manager)

// WithIdleTTL sets how long an unused session is kept.
func WithIdleTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idleTTL = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(vault ports.TokenVault, auth Bootstrapper, settings SettingsLoader, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		vault:    vault,
		auth:     auth,
		settings: settings,
		idleTTL:  defaultIdleTTL,
		bootTTL:  defaultBootstrapTimeout,
		log:      log.With().Str("component", "session").Logger(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Resolve returns the session for a cookie value. Unknown but well-formed ids
// are adopted so a returning browser finds its stored tokens after a restart;
// anything else gets a fresh id, which starts signed out without touching the
// vault. created reports whether a new session was started and the cookie
// must be (re)issued.
func (m *Manager) Resolve(id string) (s *Session, created bool) {
	now := m.now()
	minted := false
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		minted = true
	}

	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		s.touch(now)
		return s, false
	}
	s = newSession(id, m.vault.For(id), now)
	s.unsubscribe = s.Store.Subscribe(m.logTransitions(id))
	m.sessions[id] = s
	m.mu.Unlock()

	metrics.SessionsActive.Inc()
	if minted {
		s.Store.Dispatch(state.RefreshFailed{})
		close(s.ready)
		return s, true
	}
	m.bootstrap(s)
	return s, true
}

// Renew moves s under a freshly minted id and returns the session kept for
// it. Store, signer cards and pending toasts carry over; the token pair is
// sealed again under the new id and the old key is cleared. The old id no
// longer resolves to the signed-in store.
func (m *Manager) Renew(ctx context.Context, s *Session) *Session {
	id := uuid.NewString()
	next := s.moveTo(id, m.vault.For(id), m.now())

	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.sessions[id] = next
	m.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	next.unsubscribe = next.Store.Subscribe(m.logTransitions(id))

	log := m.log.With().Str("session_id", id).Logger()
	if t := next.Store.Snapshot().Auth.Tokens; !t.Empty() {
		if err := next.Tokens.Save(ctx, t); err != nil {
			log.Warn().Err(err).Msg("failed to store tokens under renewed id")
		}
	}
	if err := s.Tokens.Clear(ctx); err != nil {
		log.Warn().Err(err).Str("previous_id", s.ID).Msg("failed to clear tokens of previous id")
	}
	log.Debug().Msg("session id renewed")
	return next
}

// Get returns a live session without creating one.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) logTransitions(id string) func(state.Snapshot) {
	log := m.log.With().Str("session_id", id).Logger()
	return func(snap state.Snapshot) {
		log.Debug().
			Uint64("version", snap.Version).
			Bool("authenticated", snap.Auth.IsAuthenticated).
			Bool("loading", snap.Auth.Loading).
			Msg("session state changed")
	}
}

func (m *Manager) bootstrap(s *Session) {
	log := m.log.With().Str("session_id", s.ID).Logger()
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(s.ready)

		ctx, cancel := context.WithTimeout(context.Background(), m.bootTTL)
		defer cancel()

		m.settings.Load(ctx, s.Store, s.ID)
		m.auth.Bootstrap(ctx, s.Store, s.Tokens)
		log.Debug().Bool("authenticated", s.Store.Snapshot().Auth.IsAuthenticated).Msg("session bootstrapped")
	}()
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. Stored tokens are kept; the vault expires them on its own.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	var evicted []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) > m.idleTTL {
			delete(m.sessions, id)
			evicted = append(evicted, s)
		}
	}
	m.mu.Unlock()

	for _, s := range evicted {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		metrics.SessionsActive.Dec()
	}
	if len(evicted) > 0 {
		m.log.Info().Int("evicted", len(evicted)).Msg("idle sessions swept")
	}
	return len(evicted)
}

// Run sweeps every interval until ctx is done, then waits for running
// bootstraps.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.idleTTL / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.wg.Wait()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
