package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/domain"
)

func TestAgreementHandler_Success(t *testing.T) {
	te := newEnv(t, signedOut)
	h := NewAgreementHandler(&stubContractService{info: domain.SuccessInfo{
		SenderName:       "Bob",
		SignerType:       domain.SignerTypeSigner,
		OrganizationName: "Acme",
	}}, 0, zerolog.Nop())

	rec, err := te.do(t, request{method: http.MethodGet, target: "/agreement/success?token=tok&confetti=true"}, h.Success)
	assertPage(t, rec, err, http.StatusOK,
		"You have successfully signed and sent the document.",
		"Sender, Bob, Acme will be notified",
		`class="confetti" data-duration="1400"`,
		`name="token" value="tok"`,
		`action="/user/register"`,
	)
}

func TestAgreementHandler_Success_NoToken(t *testing.T) {
	te := newEnv(t, signedOut)
	h := NewAgreementHandler(&stubContractService{}, 0, zerolog.Nop())

	rec, err := te.do(t, request{method: http.MethodGet, target: "/agreement/success"}, h.Success)
	assertPage(t, rec, err, http.StatusOK, "You have completed the document.")
	if strings.Contains(rec.Body.String(), "Get a Copy of Document") {
		t.Fatalf("copy button needs a token")
	}
}

func TestAgreementHandler_RequestCopy(t *testing.T) {
	cases := []struct {
		name    string
		res     domain.CopyResult
		message string
		class   string
	}{
		{"sent", domain.CopyResult{Type: domain.CopySent}, "The final document has been emailed to you.", "modal-info"},
		{"pending", domain.CopyResult{Type: domain.CopyRequest}, "The document is not ready yet.", "modal-info"},
		{"failed", domain.CopyResult{Type: domain.CopyError, Failed: true}, "Looks like something went wrong.", "modal-error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			te := newEnv(t, signedOut)
			h := NewAgreementHandler(&stubContractService{copyRes: tc.res}, 0, zerolog.Nop())

			rec, err := te.do(t, request{
				method: http.MethodPost,
				target: "/agreement/success/copy",
				form:   url.Values{"token": {"tok"}},
			}, h.RequestCopy)
			assertPage(t, rec, err, http.StatusOK, tc.message, tc.class)
		})
	}
}
