package ports

import (
	"context"

	"github.com/ratify/ratify-web/internal/core/domain"
)

// PreferenceRepository stores interface preferences per client under the
// domain storage keys.
type PreferenceRepository interface {
	Load(ctx context.Context, clientID string) (domain.Preferences, error)
	Save(ctx context.Context, clientID, key, value string) error
}
