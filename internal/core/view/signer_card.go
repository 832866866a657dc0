package view

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ratify/ratify-web/internal/api/metrics"
	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/form"
)

const (
	MsgResendOK     = "Document send successfully!"
	MsgResendFailed = "Cannot send the document. Please contact support"
)

// ResendFunc delivers the invitation of one signer to a corrected contact.
type ResendFunc func(ctx context.Context, name, email string) error

// CardAction is a button of the expanded card.
type CardAction string

const (
	ActionSendReminder CardAction = "send_reminder"
	ActionSendAgain    CardAction = "send_again"
)

// SignerCardState is what the card renders.
type SignerCardState struct {
	Signer      domain.Signer
	Progress    *domain.SignerProgress
	Badge       domain.Badge
	StatusLabel string
	Reminder    string
	Actions     []CardAction
	Expanded    bool
	ModalOpen   bool
	Sending     bool
	Errors      form.FieldErrors
}

// SignerCard is the collapsible widget of one signer on the progress page.
type SignerCard struct {
	badge domain.Badge

	mu        sync.Mutex
	signer    domain.Signer
	progress  *domain.SignerProgress
	expanded  bool
	modalOpen bool
	sending   bool
	errors    form.FieldErrors
}

// NewSignerCard builds a collapsed card. The badge is fixed at creation.
func NewSignerCard(e domain.SignerEntry) *SignerCard {
	return &SignerCard{
		badge:    domain.SignerBadgeOf(e.Signer),
		signer:   e.Signer,
		progress: e.Progress,
	}
}

// Toggle flips between collapsed and expanded and returns the new state.
func (c *SignerCard) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expanded = !c.expanded
	return c.expanded
}

func (c *SignerCard) OpenModal() {
	c.mu.Lock()
	c.modalOpen = true
	c.errors = nil
	c.mu.Unlock()
}

func (c *SignerCard) CloseModal() {
	c.mu.Lock()
	c.modalOpen = false
	c.errors = nil
	c.mu.Unlock()
}

// SendAgain validates the corrected contact and resends the document. Only
// one resend runs per card at a time; a second call returns
// ErrResendInFlight. Invalid input returns form.FieldErrors and sends
// nothing. The outcome is reported through n.
func (c *SignerCard) SendAgain(ctx context.Context, in form.SendAgain, send ResendFunc, n Notifier, onSent func()) error {
	if err := validate.Struct(in); err != nil {
		c.mu.Lock()
		c.modalOpen = true
		c.errors, _ = err.(form.FieldErrors)
		c.mu.Unlock()
		metrics.SignerResendTotal.WithLabelValues("invalid").Inc()
		return err
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		metrics.SignerResendTotal.WithLabelValues("in_flight").Inc()
		return ErrResendInFlight
	}
	c.sending = true
	c.errors = nil
	c.mu.Unlock()

	err := send(ctx, in.Name, in.Email)

	c.mu.Lock()
	c.sending = false
	if err == nil {
		c.modalOpen = false
	}
	c.mu.Unlock()

	if err != nil {
		metrics.SignerResendTotal.WithLabelValues("failed").Inc()
		n.Notify(Toast{Kind: ToastError, Message: MsgResendFailed})
		return err
	}
	metrics.SignerResendTotal.WithLabelValues("ok").Inc()
	if onSent != nil {
		onSent()
	}
	n.Notify(Toast{Kind: ToastSuccess, Message: MsgResendOK})
	return nil
}

// State returns a render-ready copy of the card.
func (c *SignerCard) State() SignerCardState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := SignerCardState{
		Signer:    c.signer,
		Progress:  c.progress,
		Badge:     c.badge,
		Expanded:  c.expanded,
		ModalOpen: c.modalOpen,
		Sending:   c.sending,
	}
	done := c.progress != nil && c.progress.Done()
	s.StatusLabel = domain.SignerStatusLabel(c.signer.Status, done, c.signer.Type)
	s.Reminder = reminderText(c.signer)
	switch c.signer.Status {
	case domain.SignerSent:
		s.Actions = []CardAction{ActionSendReminder}
	case domain.SignerError:
		s.Actions = []CardAction{ActionSendAgain}
	}
	if c.errors != nil {
		s.Errors = make(form.FieldErrors, len(c.errors))
		for k, m := range c.errors {
			s.Errors[k] = m
		}
	}
	return s
}

func (c *SignerCard) update(e domain.SignerEntry) {
	c.mu.Lock()
	c.signer = e.Signer
	c.progress = e.Progress
	c.mu.Unlock()
}

func reminderText(s domain.Signer) string {
	if !s.HasReminder() {
		return "No Reminder"
	}
	return strconv.Itoa(s.Every) + " " + s.EveryUnit
}

// CardSet keeps the cards of a session across requests so that the expanded
// state and the resend guard survive page reloads.
type CardSet struct {
	mu    sync.Mutex
	cards map[int64]*SignerCard
}

func NewCardSet() *CardSet {
	return &CardSet{cards: make(map[int64]*SignerCard)}
}

// Sync returns one card per entry in order, creating cards for signers seen
// for the first time. Existing cards take the fresh signer data but keep
// their badge.
func (cs *CardSet) Sync(entries []domain.SignerEntry) []*SignerCard {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]*SignerCard, 0, len(entries))
	for _, e := range entries {
		c, ok := cs.cards[e.Signer.ID]
		if !ok {
			c = NewSignerCard(e)
			cs.cards[e.Signer.ID] = c
		} else {
			c.update(e)
		}
		out = append(out, c)
	}
	return out
}

// Get returns the card of signerID.
func (cs *CardSet) Get(signerID int64) (*SignerCard, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c, ok := cs.cards[signerID]
	if !ok {
		return nil, fmt.Errorf("signer card %d: %w", signerID, domain.ErrNotFound)
	}
	return c, nil
}
