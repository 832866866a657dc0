package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/api/middleware"
	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
	"github.com/ratify/ratify-web/internal/session"
)

// ── session plumbing ─────────────────────────────────────────────────────────

type nopVault struct{}

func (nopVault) For(string) ports.TokenStore { return nopTokens{} }

type nopTokens struct{}

func (nopTokens) Save(context.Context, domain.Tokens) error   { return nil }
func (nopTokens) Load(context.Context) (domain.Tokens, error) { return domain.Tokens{}, domain.ErrNoTokens }
func (nopTokens) Clear(context.Context) error                 { return nil }

type bootstrapFunc func(st *state.Store)

func (f bootstrapFunc) Bootstrap(_ context.Context, st *state.Store, _ ports.TokenStore) { f(st) }

type nopSettingsLoader struct{}

func (nopSettingsLoader) Load(context.Context, *state.Store, string) {}

func signedIn(st *state.Store) {
	st.Dispatch(state.LoginSucceeded{
		Tokens: domain.Tokens{Access: "a", Refresh: "r"},
		User:   domain.User{ID: 1, FirstName: "Ada", LastName: "King"},
	})
}

func signedOut(st *state.Store) { st.Dispatch(state.RefreshFailed{}) }

// testEnv is one echo instance with one ready browser session.
type testEnv struct {
	e *echo.Echo
	m *session.Manager
	s *session.Session
}

func newEnv(t *testing.T, boot bootstrapFunc) *testEnv {
	t.Helper()
	te := newLoadingEnv(t, boot)
	if err := te.s.WaitReady(context.Background()); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
	return te
}

// newLoadingEnv returns the env as soon as its session exists, possibly
// before boot has finished.
func newLoadingEnv(t *testing.T, boot bootstrapFunc) *testEnv {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()

	m := session.NewManager(nopVault{}, boot, nopSettingsLoader{}, zerolog.Nop())
	s, _ := m.Resolve(uuid.NewString())
	return &testEnv{e: e, m: m, s: s}
}

// request describes one call to a handler.
type request struct {
	method  string
	target  string
	form    url.Values
	params  map[string]string
	referer string
}

// do runs h behind the Session middleware with the env's session cookie.
func (te *testEnv) do(t *testing.T, r request, h echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	var req *http.Request
	if r.form != nil {
		req = httptest.NewRequest(r.method, r.target, strings.NewReader(r.form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(r.method, r.target, nil)
	}
	req.AddCookie(&http.Cookie{Name: "ratify_sid", Value: te.s.ID})
	if r.referer != "" {
		req.Header.Set("Referer", r.referer)
	}
	rec := httptest.NewRecorder()
	c := te.e.NewContext(req, rec)
	if len(r.params) > 0 {
		names := make([]string, 0, len(r.params))
		values := make([]string, 0, len(r.params))
		for k, v := range r.params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	err := middleware.Session(te.m, middleware.SessionConfig{})(h)(c)
	return rec, err
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, err error, to string) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != to {
		t.Fatalf("expected 303 to %s, got %d %q", to, rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

// assertRenewed checks that a sign-in moved the env's session under the new
// cookie value and that the old id no longer resolves.
func assertRenewed(t *testing.T, te *testEnv, rec *httptest.ResponseRecorder) {
	t.Helper()
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "ratify_sid" {
		t.Fatalf("expected a renewed session cookie, got %v", cookies)
	}
	if cookies[0].Value == te.s.ID {
		t.Fatalf("session id was not renewed")
	}
	if _, ok := te.m.Get(te.s.ID); ok {
		t.Fatalf("old session id still resolves")
	}
	next, ok := te.m.Get(cookies[0].Value)
	if !ok || next.Store != te.s.Store {
		t.Fatalf("renewed session must keep the signed-in store")
	}
}

func assertPage(t *testing.T, rec *httptest.ResponseRecorder, err error, code int, contains ...string) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, s := range contains {
		if !strings.Contains(body, s) {
			t.Fatalf("body does not contain %q:\n%s", s, body)
		}
	}
}

// ── service stubs ────────────────────────────────────────────────────────────

type stubAuthService struct {
	mu        sync.Mutex
	loginErr  error
	remembers []bool
	regMsg    string
	regErr    error
	resetFn   func(token, password, confirm string) (string, error)
	logouts   int
}

func (s *stubAuthService) Login(_ context.Context, st *state.Store, _ ports.TokenStore, _, _ string, remember bool) error {
	s.mu.Lock()
	s.remembers = append(s.remembers, remember)
	s.mu.Unlock()
	if s.loginErr != nil {
		return s.loginErr
	}
	signedIn(st)
	return nil
}

func (s *stubAuthService) ResetPassword(_ context.Context, token, password, confirm string) (string, error) {
	return s.resetFn(token, password, confirm)
}

func (s *stubAuthService) Register(context.Context, domain.SignUp) (string, error) {
	return s.regMsg, s.regErr
}

func (s *stubAuthService) Logout(_ context.Context, st *state.Store, _ ports.TokenStore) error {
	s.mu.Lock()
	s.logouts++
	s.mu.Unlock()
	st.Dispatch(state.LoggedOut{})
	return nil
}

type stubContractService struct {
	mu        sync.Mutex
	info      domain.SuccessInfo
	copyRes   domain.CopyResult
	copyErr   error
	progress  domain.ContractProgress
	progErr   error
	resendErr error
	resent    []int64
}

func (s *stubContractService) SuccessInfo(context.Context, string) (domain.SuccessInfo, error) {
	return s.info, nil
}

func (s *stubContractService) RequestFinalDocument(context.Context, string) (domain.CopyResult, error) {
	return s.copyRes, s.copyErr
}

func (s *stubContractService) SendDocumentAgain(_ context.Context, _ *state.Store, _ ports.TokenStore, signerID int64, _, _ string) error {
	s.mu.Lock()
	s.resent = append(s.resent, signerID)
	s.mu.Unlock()
	return s.resendErr
}

func (s *stubContractService) Progress(context.Context, *state.Store, ports.TokenStore, int64) (domain.ContractProgress, error) {
	return s.progress, s.progErr
}

type stubSettingsService struct {
	locales []string
	colors  []string
}

func (s *stubSettingsService) ChangeLocale(_ context.Context, _ *state.Store, _ string, locale string) error {
	if _, ok := domain.LookupLocale(locale); !ok {
		return domain.ErrUnknownLocale
	}
	s.locales = append(s.locales, locale)
	return nil
}

func (s *stubSettingsService) ChangeTheme(_ context.Context, _ *state.Store, _ string, color string) error {
	if !domain.ValidThemeColor(color) {
		return domain.ErrUnknownColor
	}
	s.colors = append(s.colors, color)
	return nil
}
