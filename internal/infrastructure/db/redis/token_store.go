package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/infrastructure/seal"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// TokenVault keeps each session's token pair sealed in Redis.
// Key format: session:tokens:<session_id>
type TokenVault struct {
	client redis.Cmdable
	sealer *seal.Sealer
	ttl    time.Duration
}

var _ ports.TokenVault = (*TokenVault)(nil)

// NewTokenVault wraps client. Values expire after ttl of inactivity.
func NewTokenVault(client redis.Cmdable, sealer *seal.Sealer, ttl time.Duration) *TokenVault {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenVault{client: client, sealer: sealer, ttl: ttl}
}

// For returns the token store of one session.
func (v *TokenVault) For(sessionID string) ports.TokenStore {
	return &tokenStore{vault: v, sessionID: sessionID}
}

type tokenStore struct {
	vault     *TokenVault
	sessionID string
}

func (s *tokenStore) key() string {
	return "session:tokens:" + s.sessionID
}

func (s *tokenStore) Save(ctx context.Context, t domain.Tokens) error {
	raw, err := s.vault.encode(s.sessionID, t)
	if err != nil {
		return err
	}
	if err := s.vault.client.Set(ctx, s.key(), raw, s.vault.ttl).Err(); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

func (s *tokenStore) Load(ctx context.Context) (domain.Tokens, error) {
	raw, err := s.vault.client.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Tokens{}, domain.ErrNoTokens
	}
	if err != nil {
		return domain.Tokens{}, fmt.Errorf("load tokens: %w", err)
	}
	return s.vault.decode(s.sessionID, raw)
}

func (s *tokenStore) Clear(ctx context.Context) error {
	if err := s.vault.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

// encode seals the JSON pair bound to the session id, so a value copied to
// another key does not open.
func (v *TokenVault) encode(sessionID string, t domain.Tokens) ([]byte, error) {
	plain, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode tokens: %w", err)
	}
	return v.sealer.Seal(plain, []byte(sessionID))
}

// decode treats unreadable values as absent.
func (v *TokenVault) decode(sessionID string, raw []byte) (domain.Tokens, error) {
	plain, err := v.sealer.Open(raw, []byte(sessionID))
	if err != nil {
		return domain.Tokens{}, domain.ErrNoTokens
	}
	var t domain.Tokens
	if err := json.Unmarshal(plain, &t); err != nil || t.Empty() {
		return domain.Tokens{}, domain.ErrNoTokens
	}
	return t, nil
}
