package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/form"
	"github.com/ratify/ratify-web/internal/core/view"
	"github.com/ratify/ratify-web/internal/session"
)

// SignerHandler serves the signer progress widget of a contract.
type SignerHandler struct {
	contracts ContractService
	log       zerolog.Logger
}

func NewSignerHandler(contracts ContractService, log zerolog.Logger) *SignerHandler {
	return &SignerHandler{contracts: contracts, log: log}
}

type contractParams struct {
	ContractID int64 `param:"id" validate:"gt=0"`
}

type signerParams struct {
	ContractID int64 `param:"id"     validate:"gt=0"`
	SignerID   int64 `param:"signer" validate:"gt=0"`
}

type progressPage struct {
	ContractID int64
	Title      string
	Cards      []view.SignerCardState
}

func bindPath(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindPathParams(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return nil
}

func progressURL(contractID int64) string {
	return fmt.Sprintf("/contracts/%d/signers", contractID)
}

// Progress handles GET /contracts/:id/signers. ?send_again=<signer> opens
// the correction modal of that signer.
func (h *SignerHandler) Progress(c echo.Context) error {
	var p contractParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	s, err := readySession(c)
	if err != nil {
		return err
	}

	var open int64
	if raw := c.QueryParam("send_again"); raw != "" {
		if open, err = strconv.ParseInt(raw, 10, 64); err != nil || open <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid signer")
		}
	}
	return h.renderProgress(c, s, p.ContractID, http.StatusOK, open)
}

// Toggle handles POST /contracts/:id/signers/:signer/toggle.
func (h *SignerHandler) Toggle(c echo.Context) error {
	var p signerParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	card, err := s.Cards.Get(p.SignerID)
	if err != nil {
		return err
	}
	card.Toggle()
	return c.Redirect(http.StatusSeeOther, progressURL(p.ContractID))
}

// CloseModal handles POST /contracts/:id/signers/:signer/close.
func (h *SignerHandler) CloseModal(c echo.Context) error {
	var p signerParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	card, err := s.Cards.Get(p.SignerID)
	if err != nil {
		return err
	}
	card.CloseModal()
	return c.Redirect(http.StatusSeeOther, progressURL(p.ContractID))
}

// Resend handles POST /contracts/:id/signers/:signer/resend. Invalid input
// re-renders the page with the modal open; every other outcome redirects
// back with a toast.
func (h *SignerHandler) Resend(c echo.Context) error {
	var p signerParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	s, err := readySession(c)
	if err != nil {
		return err
	}
	var in form.SendAgain
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	card, err := s.Cards.Get(p.SignerID)
	if err != nil {
		return err
	}

	send := func(ctx context.Context, name, email string) error {
		return h.contracts.SendDocumentAgain(ctx, s.Store, s.Tokens, p.SignerID, name, email)
	}
	err = card.SendAgain(c.Request().Context(), in, send, s, nil)

	var fe form.FieldErrors
	switch {
	case errors.As(err, &fe):
		return h.renderProgress(c, s, p.ContractID, http.StatusUnprocessableEntity, 0)
	case errors.Is(err, view.ErrResendInFlight):
		h.log.Debug().Int64("signer_id", p.SignerID).Msg("resend already running")
	case errors.Is(err, domain.ErrUnauthorized):
		return err
	case err != nil:
		h.log.Warn().Err(err).Int64("signer_id", p.SignerID).Msg("resend failed")
	}
	return c.Redirect(http.StatusSeeOther, progressURL(p.ContractID))
}

// renderProgress loads the contract, syncs the session cards and draws the
// page. open, when set, is the signer whose correction modal is shown.
func (h *SignerHandler) renderProgress(c echo.Context, s *session.Session, contractID int64, code int, open int64) error {
	p, err := h.contracts.Progress(c.Request().Context(), s.Store, s.Tokens, contractID)
	if err != nil {
		return err
	}
	cards := s.Cards.Sync(p.Signers)
	if open != 0 {
		card, err := s.Cards.Get(open)
		if err != nil {
			return err
		}
		card.OpenModal()
	}

	page := progressPage{ContractID: contractID, Title: p.Title}
	for _, card := range cards {
		page.Cards = append(page.Cards, card.State())
	}
	return render(c, code, "signer_progress", "Signers", page, nil)
}
