package redis

import (
	"errors"
	"testing"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/infrastructure/seal"
)

func newVault(t *testing.T) *TokenVault {
	t.Helper()
	s, _, err := seal.New("")
	if err != nil {
		t.Fatalf("sealer: %v", err)
	}
	return NewTokenVault(nil, s, 0)
}

func TestTokenVault_Codec(t *testing.T) {
	v := newVault(t)
	in := domain.Tokens{Access: "A", Refresh: "R"}

	raw, err := v.encode("sid", in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := v.decode("sid", raw)
	if err != nil || out != in {
		t.Fatalf("decode: %+v %v", out, err)
	}
}

func TestTokenVault_DecodeForeignValue(t *testing.T) {
	v := newVault(t)
	raw, _ := v.encode("sid-a", domain.Tokens{Access: "A", Refresh: "R"})

	if _, err := v.decode("sid-b", raw); !errors.Is(err, domain.ErrNoTokens) {
		t.Fatalf("value of another session must not open, got %v", err)
	}
	if _, err := v.decode("sid-a", []byte("garbage")); !errors.Is(err, domain.ErrNoTokens) {
		t.Fatalf("garbage must read as absent, got %v", err)
	}
}

func TestTokenVault_EmptyPairReadsAsAbsent(t *testing.T) {
	v := newVault(t)
	raw, _ := v.encode("sid", domain.Tokens{Access: "A"})

	if _, err := v.decode("sid", raw); !errors.Is(err, domain.ErrNoTokens) {
		t.Fatalf("expected ErrNoTokens, got %v", err)
	}
}

func TestTokenStore_Key(t *testing.T) {
	s := newVault(t).For("abc").(*tokenStore)
	if s.key() != "session:tokens:abc" {
		t.Fatalf("unexpected key %q", s.key())
	}
}
