package ports

import (
	"context"

	"github.com/ratify/ratify-web/internal/core/domain"
)

// ContractAPI is the remote contract surface. Token-based calls are made on
// behalf of a signer and carry no bearer token.
type ContractAPI interface {
	SuccessInfo(ctx context.Context, token string) (domain.SuccessInfo, error)
	RequestCopy(ctx context.Context, token string) (domain.CopyType, error)
	ResendToSigner(ctx context.Context, accessToken string, signerID int64, name, email string) error
	Progress(ctx context.Context, accessToken string, contractID int64) (domain.ContractProgress, error)
}
