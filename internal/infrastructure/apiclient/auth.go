package apiclient

import (
	"context"
	"net/http"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
)

// AuthAPI implements ports.AuthAPI.
type AuthAPI struct {
	c *Client
}

var _ ports.AuthAPI = (*AuthAPI)(nil)

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (domain.Tokens, error) {
	var out domain.Tokens
	err := a.c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/refresh",
		endpoint: "POST /auth/refresh",
		body:     map[string]string{"refresh": refreshToken},
		out:      &out,
	})
	return out, err
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type loginResponse struct {
	domain.Tokens
	User domain.User `json:"user"`
}

func (a *AuthAPI) Login(ctx context.Context, email, password string, rememberMe bool) (domain.Tokens, domain.User, error) {
	var out loginResponse
	err := a.c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		endpoint: "POST /auth/login",
		body:     loginRequest{Email: email, Password: password, RememberMe: rememberMe},
		out:      &out,
	})
	if err != nil {
		return domain.Tokens{}, domain.User{}, err
	}
	return out.Tokens, out.User, nil
}

func (a *AuthAPI) Register(ctx context.Context, in domain.SignUp) (domain.BaseResponse, error) {
	var out domain.BaseResponse
	err := a.c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/register",
		endpoint: "POST /auth/register",
		body:     in,
		out:      &out,
	})
	return out, err
}

type resetRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (a *AuthAPI) ResetPassword(ctx context.Context, token, password, confirmPassword string) (string, error) {
	var out struct {
		Email string `json:"email"`
	}
	err := a.c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/reset-password",
		endpoint: "POST /auth/reset-password",
		body:     resetRequest{Token: token, Password: password, ConfirmPassword: confirmPassword},
		out:      &out,
	})
	return out.Email, err
}

func (a *AuthAPI) Me(ctx context.Context, accessToken string) (domain.User, error) {
	var out domain.User
	err := a.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/users/me",
		endpoint: "GET /users/me",
		bearer:   accessToken,
		out:      &out,
	})
	return out, err
}
