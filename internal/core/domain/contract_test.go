package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestCopyResultMessage(t *testing.T) {
	cases := []struct {
		result CopyResult
		want   string
	}{
		{CopyResult{Type: CopySent}, "The final document has been emailed to you. Please check your inbox."},
		{CopyResult{Type: CopyMany}, copyReceivedMessage},
		{CopyResult{Type: CopyRequest}, copyPendingMessage},
		{CopyResult{Type: CopyAgreement, Failed: true}, copyFailedMessage},
		{CopyResult{Type: CopyEmail, Failed: true}, copyFailedMessage},
		{CopyResult{Type: CopyError, Failed: true}, copyFailedMessage},
		{CopyResult{Type: "", Failed: true}, copyFailedMessage},
		{CopyResult{Type: "weird", Failed: true}, copyFailedMessage},
		{CopyResult{Type: "weird"}, copyReceivedMessage},
		{CopyResult{}, copyReceivedMessage},
	}

	for _, tc := range cases {
		if got := tc.result.Message(); got != tc.want {
			t.Fatalf("%+v: Message() = %q, want %q", tc.result, got, tc.want)
		}
	}
}

func TestSuccessInfoHeadline(t *testing.T) {
	if got := (SuccessInfo{}).Headline(); got != "You have completed the document." {
		t.Fatalf("unexpected headline: %q", got)
	}
	if got := (SuccessInfo{SignerType: SignerTypeSigner}).Headline(); !strings.Contains(got, "signed and sent") {
		t.Fatalf("unexpected headline: %q", got)
	}
	if got := (SuccessInfo{SignerType: SignerTypeApprover}).Headline(); !strings.Contains(got, "approved") {
		t.Fatalf("unexpected headline: %q", got)
	}
}

func TestSuccessInfoSenderLine(t *testing.T) {
	info := SuccessInfo{SenderName: "Jane", OrganizationName: "Acme", SignerType: SignerTypeApprover}
	want := "Sender, Jane, Acme will be notified and will receive the approved document"
	if got := info.SenderLine(); got != want {
		t.Fatalf("SenderLine() = %q, want %q", got, want)
	}
	if got := (SuccessInfo{}).SenderLine(); got != "Sender will be notified and will receive the signed document" {
		t.Fatalf("unexpected sender line: %q", got)
	}
}

func TestResetReasonOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ResetReason
	}{
		{"invalid", &APIError{StatusCode: http.StatusBadRequest, Status: "invalid"}, ResetInvalid},
		{"expired wrapped", fmt.Errorf("reset: %w", &APIError{StatusCode: http.StatusBadRequest, Status: "expired"}), ResetExpired},
		{"password", &APIError{StatusCode: http.StatusBadRequest, Status: "password"}, ResetPassword},
		{"confirm", &APIError{StatusCode: http.StatusBadRequest, Status: "confirm_password"}, ResetConfirmPassword},
		{"unknown status", &APIError{StatusCode: http.StatusBadRequest, Status: "nope"}, ResetUnspecified},
		{"not a 400", &APIError{StatusCode: http.StatusInternalServerError, Status: "invalid"}, ResetUnspecified},
		{"transport", errors.New("dial tcp: refused"), ResetUnspecified},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResetReasonOf(tc.err); got != tc.want {
				t.Fatalf("ResetReasonOf() = %q, want %q", got, tc.want)
			}
			if tc.want.Message() == "" {
				t.Fatalf("reason %q has no message", tc.want)
			}
		})
	}

	if ResetUnspecified.Message() != GenericErrorMessage {
		t.Fatalf("unspecified must use the generic message")
	}
}

func TestAPIErrorIs(t *testing.T) {
	err := fmt.Errorf("me: %w", &APIError{StatusCode: http.StatusUnauthorized})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected 401 to match ErrUnauthorized")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("401 must not match ErrNotFound")
	}
	if got := UserMessage(&APIError{StatusCode: 401, Message: "Bad credentials"}); got != "Bad credentials" {
		t.Fatalf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != GenericErrorMessage {
		t.Fatalf("UserMessage() = %q", got)
	}
}

func TestPreferencesSettings(t *testing.T) {
	s := Preferences{LocaleStorageKey: "enrtl", ThemeColorStorageKey: "dark.redruby"}.Settings()
	if s.Locale != "enrtl" || s.Direction != RTL || s.ThemeColor != "dark.redruby" {
		t.Fatalf("unexpected settings: %+v", s)
	}
	s = Preferences{LocaleStorageKey: "xx", ThemeColorStorageKey: "neon.pink"}.Settings()
	if s != DefaultSettings() {
		t.Fatalf("unknown values should fall back to defaults, got %+v", s)
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleEditor.Valid() || Role(2).Valid() {
		t.Fatalf("role validity mismatch")
	}
}
