package provider

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapErrorNil(t *testing.T) {
	if got := WrapError(nil); got != nil {
		t.Fatalf("WrapError(nil) = %v, want nil", got)
	}
}

func TestWrapErrorKnownSentinels(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"invalid repo URL", ErrInvalidRepoURL, "Invalid repository URL"},
		{"auth failed", ErrAuthFailed, "Authentication failed"},
		{"rate limited", ErrRateLimited, "Provider rate limit reached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Errors arrive wrapped from the engine, never bare.
			wrapped := fmt.Errorf("analysis failed: %w", tt.err)
			got := WrapError(wrapped)

			var userErr *UserError
			if !errors.As(got, &userErr) {
				t.Fatalf("WrapError(%v) = %T, want *UserError", wrapped, got)
			}
			if userErr.Message != tt.message {
				t.Errorf("Message = %q, want %q", userErr.Message, tt.message)
			}
			if userErr.Hint == "" {
				t.Error("expected a hint for a known failure")
			}
			if !errors.Is(got, tt.err) {
				t.Error("wrapped error should still match the sentinel")
			}
		})
	}
}

func TestWrapErrorUnknownPassesThrough(t *testing.T) {
	err := errors.New("model overloaded")
	if got := WrapError(err); got != err {
		t.Fatalf("WrapError(%v) = %v, want the error unchanged", err, got)
	}
}

func TestUserErrorRendering(t *testing.T) {
	err := &UserError{
		Message: "Authentication failed",
		Hint:    "Check your token",
		Err:     errors.New("401"),
	}

	msg := err.Error()
	for _, want := range []string{"Authentication failed", "Hint: Check your token", "Details: 401"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() missing %q in %q", want, msg)
		}
	}
}
