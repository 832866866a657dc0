package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
)

// ContractService wraps the per-signer contract endpoints. No call is retried
// automatically; callers surface failures to the user.
type ContractService struct {
	api  ports.ContractAPI
	auth *AuthService
	log  zerolog.Logger
}

func NewContractService(api ports.ContractAPI, auth *AuthService, log zerolog.Logger) *ContractService {
	return &ContractService{api: api, auth: auth, log: log}
}

// SuccessInfo returns what the signer behind token just completed.
func (s *ContractService) SuccessInfo(ctx context.Context, token string) (domain.SuccessInfo, error) {
	info, err := s.api.SuccessInfo(ctx, token)
	if err != nil {
		return domain.SuccessInfo{}, fmt.Errorf("success info: %w", err)
	}
	return info, nil
}

// RequestFinalDocument asks for the signed copy. The result is always usable
// for display: a failure carries the type from the error body when it is a
// known one, "error" otherwise.
func (s *ContractService) RequestFinalDocument(ctx context.Context, token string) (domain.CopyResult, error) {
	typ, err := s.api.RequestCopy(ctx, token)
	if err == nil {
		return domain.CopyResult{Type: typ}, nil
	}

	res := domain.CopyResult{Type: domain.CopyError, Failed: true}
	var ae *domain.APIError
	if errors.As(err, &ae) && domain.CopyType(ae.Type).Known() {
		res.Type = domain.CopyType(ae.Type)
	}
	s.log.Warn().Err(err).Str("type", string(res.Type)).Msg("final document request failed")
	return res, fmt.Errorf("request final document: %w", err)
}

// SendDocumentAgain resends the invitation of signerID to a corrected
// name/email.
func (s *ContractService) SendDocumentAgain(ctx context.Context, st *state.Store, tokens ports.TokenStore, signerID int64, name, email string) error {
	err := s.auth.WithAccess(ctx, st, tokens, func(access string) error {
		return s.api.ResendToSigner(ctx, access, signerID, name, email)
	})
	if err != nil {
		return fmt.Errorf("resend to signer %d: %w", signerID, err)
	}
	s.log.Info().Int64("signer_id", signerID).Msg("document resent")
	return nil
}

// Progress loads the signers of a contract with their progress.
func (s *ContractService) Progress(ctx context.Context, st *state.Store, tokens ports.TokenStore, contractID int64) (domain.ContractProgress, error) {
	var out domain.ContractProgress
	err := s.auth.WithAccess(ctx, st, tokens, func(access string) error {
		p, err := s.api.Progress(ctx, access, contractID)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return domain.ContractProgress{}, fmt.Errorf("contract %d progress: %w", contractID, err)
	}
	return out, nil
}
