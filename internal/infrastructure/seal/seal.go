// Package seal encrypts small values at rest with XChaCha20-Poly1305.
package seal

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrOpen is returned for values that were not sealed with this key.
var ErrOpen = errors.New("seal: message authentication failed")

// Sealer seals and opens values with one key.
type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a base64 encoded 32-byte key. An empty key
// generates a random one, which makes sealed values unreadable after a
// restart.
func New(encodedKey string) (*Sealer, bool, error) {
	var (
		key       []byte
		generated bool
	)
	if encodedKey == "" {
		key = make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, false, fmt.Errorf("seal: generate key: %w", err)
		}
		generated = true
	} else {
		var err error
		key, err = base64.StdEncoding.DecodeString(encodedKey)
		if err != nil {
			return nil, false, fmt.Errorf("seal: decode key: %w", err)
		}
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, false, fmt.Errorf("seal: %w", err)
	}
	return &Sealer{aead: aead}, generated, nil
}

// Seal encrypts plaintext bound to ad. The nonce is prepended.
func (s *Sealer) Seal(plaintext, ad []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+chacha20poly1305.Overhead)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("seal: nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, ad), nil
}

// Open reverses Seal. ad must match the value used when sealing.
func (s *Sealer) Open(sealed, ad []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+chacha20poly1305.Overhead {
		return nil, ErrOpen
	}
	out, err := s.aead.Open(nil, sealed[:n], sealed[n:], ad)
	if err != nil {
		return nil, ErrOpen
	}
	return out, nil
}
