package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, zerolog.Nop())
}

func TestAuthAPI_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in loginRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode: %v", err)
		}
		if in.Email != "a@b.io" || in.Password != "pw" || !in.RememberMe {
			t.Errorf("unexpected body %+v", in)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"A","refresh":"R","user":{"id":7,"first_name":"Ann"}}`))
	})

	tokens, user, err := NewAuthAPI(c).Login(context.Background(), "a@b.io", "pw", true)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens != (domain.Tokens{Access: "A", Refresh: "R"}) || user.ID != 7 || user.FirstName != "Ann" {
		t.Fatalf("unexpected result %+v %+v", tokens, user)
	}
}

func TestAuthAPI_ErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"expired","message":"link expired"}`))
	})

	_, err := NewAuthAPI(c).ResetPassword(context.Background(), "t", "p", "p")
	var ae *domain.APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.StatusCode != http.StatusBadRequest || ae.Status != "expired" || ae.Message != "link expired" {
		t.Fatalf("unexpected error %+v", ae)
	}
	if domain.ResetReasonOf(err) != domain.ResetExpired {
		t.Fatalf("expected expired reason")
	}
}

func TestAuthAPI_UnauthorizedMapsToSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected authorization %q", got)
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := NewAuthAPI(c).Me(context.Background(), "tok")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestContractAPI_SuccessInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contracts/sign/success" || r.URL.Query().Get("token") != "a b" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`{"data":{"senderName":"Jane","signerType":"signer","organizationName":"Acme"}}`))
	})

	info, err := NewContractAPI(c).SuccessInfo(context.Background(), "a b")
	if err != nil {
		t.Fatalf("success info: %v", err)
	}
	if info.SenderName != "Jane" || info.SignerType != domain.SignerTypeSigner || info.OrganizationName != "Acme" {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestContractAPI_RequestCopyErrorType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"type":"agreement"}`))
	})

	_, err := NewContractAPI(c).RequestCopy(context.Background(), "t")
	var ae *domain.APIError
	if !errors.As(err, &ae) || ae.Type != "agreement" {
		t.Fatalf("expected typed APIError, got %v", err)
	}
}

func TestContractAPI_ResendAndProgress(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/contracts/signers/42/resend":
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in["name"] != "Ann" || in["email"] != "ann@x.io" {
				t.Errorf("unexpected body %v", in)
			}
			_, _ = w.Write([]byte(`{"status":"ok","message":"sent"}`))
		case "/contracts/5/signers":
			_, _ = w.Write([]byte(`{"contract_id":5,"title":"NDA","signers":[{"signer":{"id":1,"status":"sent"},"progress":{"total":2,"completed":1}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	api := NewContractAPI(c)
	if err := api.ResendToSigner(context.Background(), "tok", 42, "Ann", "ann@x.io"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	p, err := api.Progress(context.Background(), "tok", 5)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.Title != "NDA" || len(p.Signers) != 1 || p.Signers[0].Progress == nil || p.Signers[0].Progress.Completed != 1 {
		t.Fatalf("unexpected progress %+v", p)
	}
	if _, err := api.Progress(context.Background(), "tok", 6); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request should not be sent")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewAuthAPI(c).Refresh(ctx, "r"); err == nil {
		t.Fatalf("expected error on cancelled context")
	}
}
