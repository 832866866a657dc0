package handler

import (
	"testing"
)

func TestNewRenderer_LoadsEveryPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	for _, name := range []string{
		"home", "error", "unauthorized", "login", "register",
		"reset_password", "agreement_success", "signer_progress", "reports",
	} {
		if _, ok := r.pages[name]; !ok {
			t.Fatalf("page %q not loaded", name)
		}
	}
	if _, ok := r.pages["layout"]; ok {
		t.Fatalf("layout must not be a page")
	}
	if _, ok := r.pages["partials"]; ok {
		t.Fatalf("partials must not be a page")
	}
}

func TestStatusFor(t *testing.T) {
	if statusFor(true) != 422 || statusFor(false) != 200 {
		t.Fatalf("unexpected status mapping")
	}
}
