package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("username", "username is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Duplicate wraps ErrDuplicate",
			err:       Duplicate("account", "alice"),
			target:    ErrDuplicate,
			wantMatch: true,
		},
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("account", "ghost"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "BadCredential wraps ErrBadCredential",
			err:       BadCredential(),
			target:    ErrBadCredential,
			wantMatch: true,
		},
		{
			name:      "Unavailable wraps ErrUnavailable",
			err:       Unavailable("insert", errors.New("disk I/O error")),
			target:    ErrUnavailable,
			wantMatch: true,
		},
		{
			name:      "Duplicate does NOT match ErrNotFound",
			err:       Duplicate("account", "alice"),
			target:    ErrNotFound,
			wantMatch: false,
		},
		{
			name:      "BadCredential does NOT match ErrValidation",
			err:       BadCredential(),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

// Service code wraps AppErrors with fmt.Errorf("...: %w", err) before
// returning them. The sentinel match must survive that extra layer.
func TestErrorsIs_ThroughWrapping(t *testing.T) {
	inner := Duplicate("account", "alice")
	wrapped := fmt.Errorf("creating account: %w", inner)

	if !errors.Is(wrapped, ErrDuplicate) {
		t.Error("wrapped Duplicate should match ErrDuplicate")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("wrapped error should expose *AppError via errors.As")
	}
	if appErr.Message == "" {
		t.Error("AppError.Message should not be empty")
	}
}

func TestUnavailable_KeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("unable to open database file: /var/lib/nope.db")
	err := Unavailable("insert", cause)

	// The user-facing message must stay generic; the cause lives in the
	// wrap chain for logs only.
	if err.Error() != "storage temporarily unavailable" {
		t.Errorf("Error() = %q, want generic message", err.Error())
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("Unavailable should match ErrUnavailable")
	}
}

func TestBadCredentialMessageIsUniform(t *testing.T) {
	// Unknown user and wrong password must be indistinguishable: the helper
	// takes no arguments, so it cannot leak which case occurred.
	a, b := BadCredential(), BadCredential()
	if a.Error() != b.Error() {
		t.Errorf("BadCredential messages differ: %q vs %q", a.Error(), b.Error())
	}
}
