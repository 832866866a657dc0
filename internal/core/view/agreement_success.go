package view

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/domain"
)

// DefaultConfettiDuration is how long the celebration shows.
const DefaultConfettiDuration = 1400 * time.Millisecond

// Contracts is the slice of the contract service the success page uses.
type Contracts interface {
	SuccessInfo(ctx context.Context, token string) (domain.SuccessInfo, error)
	RequestFinalDocument(ctx context.Context, token string) (domain.CopyResult, error)
}

// CopyModal is the dialog opened by "Get a Copy of Document".
type CopyModal struct {
	Failed  bool
	Message string
}

// AgreementSuccessState is what the page renders.
type AgreementSuccessState struct {
	Token            string
	Confetti         bool
	ConfettiDuration time.Duration
	Info             domain.SuccessInfo
	Modal            *CopyModal
	Requesting       bool
}

// Headline is the page title for the loaded info.
func (s AgreementSuccessState) Headline() string { return s.Info.Headline() }

// SenderLine names who gets notified.
func (s AgreementSuccessState) SenderLine() string { return s.Info.SenderLine() }

// AgreementSuccess drives the page a signer lands on after completing a
// document.
type AgreementSuccess struct {
	contracts Contracts
	duration  time.Duration
	log       zerolog.Logger

	mu      sync.Mutex
	mounted bool
	timer   *time.Timer
	state   AgreementSuccessState
}

func NewAgreementSuccess(contracts Contracts, confetti time.Duration, log zerolog.Logger) *AgreementSuccess {
	if confetti <= 0 {
		confetti = DefaultConfettiDuration
	}
	return &AgreementSuccess{
		contracts: contracts,
		duration:  confetti,
		log:       log,
		state:     AgreementSuccessState{ConfettiDuration: confetti},
	}
}

// Mount reads the confetti flag and token, starts the confetti timer and
// loads the success info. A failed load is logged and the generic headline
// stays.
func (v *AgreementSuccess) Mount(ctx context.Context, query url.Values) {
	token := query.Get("token")

	v.mu.Lock()
	v.mounted = true
	v.state.Token = token
	if confettiFlag(query.Get("confetti")) {
		v.state.Confetti = true
		v.timer = time.AfterFunc(v.duration, v.hideConfetti)
	}
	v.mu.Unlock()

	if token == "" {
		return
	}
	info, err := v.contracts.SuccessInfo(ctx, token)
	if err != nil {
		v.log.Warn().Err(err).Msg("success info unavailable")
		return
	}
	v.mu.Lock()
	v.state.Info = info
	v.mu.Unlock()
}

func confettiFlag(raw string) bool {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw != ""
}

func (v *AgreementSuccess) hideConfetti() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted {
		v.state.Confetti = false
	}
}

// RequestCopy asks for the final document and opens the result modal. It is
// a no-op without a token.
func (v *AgreementSuccess) RequestCopy(ctx context.Context) {
	v.mu.Lock()
	token := v.state.Token
	if token == "" || v.state.Requesting {
		v.mu.Unlock()
		return
	}
	v.state.Requesting = true
	v.mu.Unlock()

	res, err := v.contracts.RequestFinalDocument(ctx, token)
	if err != nil {
		v.log.Debug().Err(err).Str("type", string(res.Type)).Msg("final document request failed")
	}

	v.mu.Lock()
	v.state.Requesting = false
	v.state.Modal = &CopyModal{Failed: res.Failed, Message: res.Message()}
	v.mu.Unlock()
}

// CloseModal dismisses the result modal.
func (v *AgreementSuccess) CloseModal() {
	v.mu.Lock()
	v.state.Modal = nil
	v.mu.Unlock()
}

// Unmount clears the confetti timer.
func (v *AgreementSuccess) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mounted = false
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

// State returns a copy of the current page state.
func (v *AgreementSuccess) State() AgreementSuccessState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	if s.Modal != nil {
		m := *s.Modal
		s.Modal = &m
	}
	return s
}
