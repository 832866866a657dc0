package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
)

// ContractAPI implements ports.ContractAPI.
type ContractAPI struct {
	c *Client
}

var _ ports.ContractAPI = (*ContractAPI)(nil)

func NewContractAPI(c *Client) *ContractAPI {
	return &ContractAPI{c: c}
}

func (a *ContractAPI) SuccessInfo(ctx context.Context, token string) (domain.SuccessInfo, error) {
	var out struct {
		Data domain.SuccessInfo `json:"data"`
	}
	err := a.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/contracts/sign/success?" + url.Values{"token": {token}}.Encode(),
		endpoint: "GET /contracts/sign/success",
		out:      &out,
	})
	return out.Data, err
}

func (a *ContractAPI) RequestCopy(ctx context.Context, token string) (domain.CopyType, error) {
	var out struct {
		Type domain.CopyType `json:"type"`
	}
	err := a.c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/contracts/sign/request-copy",
		endpoint: "POST /contracts/sign/request-copy",
		body:     map[string]string{"token": token},
		out:      &out,
	})
	return out.Type, err
}

func (a *ContractAPI) ResendToSigner(ctx context.Context, accessToken string, signerID int64, name, email string) error {
	return a.c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/contracts/signers/" + strconv.FormatInt(signerID, 10) + "/resend",
		endpoint: "POST /contracts/signers/:id/resend",
		bearer:   accessToken,
		body:     map[string]string{"name": name, "email": email},
	})
}

func (a *ContractAPI) Progress(ctx context.Context, accessToken string, contractID int64) (domain.ContractProgress, error) {
	var out domain.ContractProgress
	err := a.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/contracts/" + strconv.FormatInt(contractID, 10) + "/signers",
		endpoint: "GET /contracts/:id/signers",
		bearer:   accessToken,
		out:      &out,
	})
	return out, err
}
