package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/api/handler"
	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/router"
	"github.com/ratify/ratify-web/internal/core/state"
	"github.com/ratify/ratify-web/internal/infrastructure/http/handlers"
	"github.com/ratify/ratify-web/internal/session"
)

type nopVault struct{}

func (nopVault) For(string) ports.TokenStore { return nopTokens{} }

type nopTokens struct{}

func (nopTokens) Save(context.Context, domain.Tokens) error   { return nil }
func (nopTokens) Load(context.Context) (domain.Tokens, error) { return domain.Tokens{}, domain.ErrNoTokens }
func (nopTokens) Clear(context.Context) error                 { return nil }

type signedOutBoot struct{}

func (signedOutBoot) Bootstrap(_ context.Context, st *state.Store, _ ports.TokenStore) {
	st.Dispatch(state.RefreshFailed{})
}

type nopSettings struct{}

func (nopSettings) Load(context.Context, *state.Store, string) {}

func (nopSettings) ChangeLocale(context.Context, *state.Store, string, string) error { return nil }
func (nopSettings) ChangeTheme(context.Context, *state.Store, string, string) error  { return nil }

type nopAuth struct{}

func (nopAuth) Login(context.Context, *state.Store, ports.TokenStore, string, string, bool) error {
	return nil
}
func (nopAuth) ResetPassword(context.Context, string, string, string) (string, error) { return "", nil }
func (nopAuth) Register(context.Context, domain.SignUp) (string, error)              { return "", nil }
func (nopAuth) Logout(context.Context, *state.Store, ports.TokenStore) error          { return nil }

type nopContracts struct{}

func (nopContracts) SuccessInfo(context.Context, string) (domain.SuccessInfo, error) {
	return domain.SuccessInfo{}, nil
}
func (nopContracts) RequestFinalDocument(context.Context, string) (domain.CopyResult, error) {
	return domain.CopyResult{Type: domain.CopySent}, nil
}
func (nopContracts) SendDocumentAgain(context.Context, *state.Store, ports.TokenStore, int64, string, string) error {
	return nil
}
func (nopContracts) Progress(context.Context, *state.Store, ports.TokenStore, int64) (domain.ContractProgress, error) {
	return domain.ContractProgress{}, nil
}

// signingAuth accepts every login.
type signingAuth struct{ nopAuth }

func (signingAuth) Login(_ context.Context, st *state.Store, _ ports.TokenStore, _, _ string, _ bool) error {
	st.Dispatch(state.LoginSucceeded{
		Tokens: domain.Tokens{Access: "a", Refresh: "r"},
		User:   domain.User{ID: 1, FirstName: "Ada", LastName: "King"},
	})
	return nil
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	return newTestRouterWith(t, nopAuth{})
}

func newTestRouterWith(t *testing.T, auth handler.AuthService) *echo.Echo {
	t.Helper()
	e, _ := newTestRouterOn(t, auth, prometheus.NewRegistry())
	return e
}

func newTestRouterOn(t *testing.T, auth handler.AuthService, reg *prometheus.Registry) (*echo.Echo, *prometheus.Registry) {
	t.Helper()
	log := zerolog.Nop()
	e, err := NewRouter(Deps{
		Sessions:  session.NewManager(nopVault{}, signedOutBoot{}, nopSettings{}, log),
		Auth:      handler.NewAuthHandler(auth, 0, log),
		Agreement: handler.NewAgreementHandler(nopContracts{}, 0, log),
		Signers:   handler.NewSignerHandler(nopContracts{}, log),
		Settings:  handler.NewSettingsHandler(nopSettings{}, log),
		Checks:    map[string]handlers.Check{"noop": func(context.Context) error { return nil }},
		Log:       log,

		Registerer: reg,
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return e, reg
}

func serve(e *echo.Echo, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_RegistersTable(t *testing.T) {
	e := newTestRouter(t)
	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, r := range router.Table {
		if !registered[r.Method+" "+r.Pattern] {
			t.Fatalf("route %s %s not registered", r.Method, r.Pattern)
		}
	}
}

func TestNewRouter_Navigation(t *testing.T) {
	e := newTestRouter(t)

	// The login page waits for the sign-in restore, so the session behind
	// this cookie is settled and signed out afterwards.
	first := serve(e, http.MethodGet, "/user/login")
	cookies := first.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected a session cookie, got %v", cookies)
	}

	cases := []struct {
		name     string
		method   string
		path     string
		code     int
		location string
	}{
		{"user index", http.MethodGet, "/user", http.StatusSeeOther, router.PathLogin},
		{"unknown path", http.MethodGet, "/nope/deeper", http.StatusSeeOther, router.PathError},
		{"protected home", http.MethodGet, "/", http.StatusSeeOther, router.PathUser},
		{"protected reports", http.MethodGet, "/reports", http.StatusSeeOther, router.PathUser},
		{"login page", http.MethodGet, "/user/login", http.StatusOK, ""},
		{"trailing slash", http.MethodGet, "/user/login/", http.StatusOK, ""},
		{"error page", http.MethodGet, "/error", http.StatusNotFound, ""},
		{"reset without token", http.MethodGet, "/user/reset-password", http.StatusSeeOther, router.PathHome},
		{"liveness", http.MethodGet, "/health", http.StatusOK, ""},
		{"readiness", http.MethodGet, "/health/ready", http.StatusOK, ""},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(e, tc.method, tc.path, cookies...)
			if rec.Code != tc.code {
				t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.code, rec.Code)
			}
			if tc.location != "" && rec.Header().Get(echo.HeaderLocation) != tc.location {
				t.Fatalf("%s %s: expected redirect to %s, got %q", tc.method, tc.path, tc.location, rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestNewRouter_IssuesSessionCookie(t *testing.T) {
	e := newTestRouter(t)
	rec := serve(e, http.MethodGet, "/user/login")
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected a session cookie, got %v", rec.Result().Cookies())
	}
	if rec := serve(e, http.MethodGet, "/health"); len(rec.Result().Cookies()) != 0 {
		t.Fatalf("operational routes must not start sessions")
	}
}

func TestNewRouter_LoginRenewsSessionID(t *testing.T) {
	e := newTestRouterWith(t, signingAuth{})
	preset := &http.Cookie{Name: "ratify_sid", Value: "11111111-2222-3333-4444-555555555555"}

	body := url.Values{"email": {"ada@example.com"}, "password": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(body.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(preset)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != router.PathHome {
		t.Fatalf("expected redirect home, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == preset.Value {
		t.Fatalf("login must issue a new session id, got %v", cookies)
	}

	// The login page waits for the restore of the preset id and shows the
	// form only when it is signed out.
	if rec := serve(e, http.MethodGet, "/user/login", preset); rec.Code != http.StatusOK {
		t.Fatalf("id known before login must not be signed in, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if rec := serve(e, http.MethodGet, "/", preset); rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != router.PathUser {
		t.Fatalf("id known before login must stay signed out, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if rec := serve(e, http.MethodGet, "/", cookies[0]); rec.Code != http.StatusOK {
		t.Fatalf("renewed id must be signed in, got %d", rec.Code)
	}
}

func TestNewRouter_RecordsRequestMetrics(t *testing.T) {
	e, reg := newTestRouterOn(t, nopAuth{}, prometheus.NewRegistry())

	serve(e, http.MethodGet, "/user/login")
	serve(e, http.MethodGet, "/nope")
	serve(e, http.MethodGet, "/metrics")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	seen := make(map[string]bool)
	for _, f := range families {
		if f.GetName() != "ratify_web_http_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := make(map[string]string)
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			seen[labels["url"]+" "+labels["code"]] = true
		}
	}
	for _, want := range []string{"/user/login 200", "/* 303"} {
		if !seen[want] {
			t.Fatalf("missing request metric %q, got %v", want, seen)
		}
	}
	if seen["/metrics 200"] {
		t.Fatalf("scrapes must not be counted")
	}
}

func TestNewRouter_MetricsRegisteredOncePerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	newTestRouterOn(t, nopAuth{}, reg)
	_, err := NewRouter(Deps{Registerer: reg, Log: zerolog.Nop()})
	if err == nil {
		t.Fatalf("expected a registration error for a second router on the same registry")
	}
}
