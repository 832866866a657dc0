package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/view"
)

// AgreementHandler serves the page a signer lands on after completing a
// document.
type AgreementHandler struct {
	contracts ContractService
	confetti  time.Duration
	log       zerolog.Logger
}

func NewAgreementHandler(contracts ContractService, confetti time.Duration, log zerolog.Logger) *AgreementHandler {
	return &AgreementHandler{contracts: contracts, confetti: confetti, log: log}
}

// agreementPage also carries the sign-up form shown below the summary.
type agreementPage struct {
	view.AgreementSuccessState
	Register view.FormState
}

// Success handles GET /agreement/success?token=&confetti=.
func (h *AgreementHandler) Success(c echo.Context) error {
	v := view.NewAgreementSuccess(h.contracts, h.confetti, h.log)
	defer v.Unmount()

	v.Mount(c.Request().Context(), c.QueryParams())
	return render(c, http.StatusOK, "agreement_success", "Document Completed", agreementPage{AgreementSuccessState: v.State()}, nil)
}

type copyRequest struct {
	Token string `form:"token"`
}

// RequestCopy handles POST /agreement/success/copy. The page is rendered
// again with the result modal open.
func (h *AgreementHandler) RequestCopy(c echo.Context) error {
	var in copyRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	v := view.NewAgreementSuccess(h.contracts, h.confetti, h.log)
	defer v.Unmount()

	ctx := c.Request().Context()
	v.Mount(ctx, url.Values{"token": {in.Token}})
	v.RequestCopy(ctx)
	return render(c, http.StatusOK, "agreement_success", "Document Completed", agreementPage{AgreementSuccessState: v.State()}, nil)
}
