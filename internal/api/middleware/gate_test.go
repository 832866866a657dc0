package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ratify/ratify-web/internal/core/router"
	"github.com/ratify/ratify-web/internal/core/state"
)

func runGate(t *testing.T, boot bootstrapFunc, wait bool) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	m := newManager(boot)
	s, _ := m.Resolve(uuid.NewString())
	if wait {
		if err := s.WaitReady(context.Background()); err != nil {
			t.Fatalf("wait ready: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(sessionKey, s)

	called := false
	h := Gate(router.PathUser)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestGate_AllowsSignedIn(t *testing.T) {
	rec, called := runGate(t, signedIn, true)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestGate_AllowsWhileLoading(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	rec, called := runGate(t, func(*state.Store) { <-block }, false)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("loading session must pass the gate, got %d", rec.Code)
	}
}

func TestGate_RedirectsSignedOut(t *testing.T) {
	rec, called := runGate(t, signedOut, true)
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != router.PathUser {
		t.Fatalf("expected redirect to %s, got %d %q", router.PathUser, rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestGate_WithoutSession(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	h := Gate(router.PathUser)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
}
