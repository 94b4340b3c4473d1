package provider

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRepoURL = errors.New("invalid repository URL")
	ErrAuthFailed     = errors.New("authentication failed")
	ErrFileNotFound   = errors.New("file not found")
	ErrRateLimited    = errors.New("rate limited")
)

// UserError wraps errors with user-friendly messages for the CLI surface.
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts provider errors to user-friendly messages.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrInvalidRepoURL) {
		return &UserError{
			Message: "Invalid repository URL",
			Hint:    "Supported formats:\n  - https://github.com/owner/repo\n  - git@github.com:owner/repo.git",
			Err:     err,
		}
	}

	if errors.Is(err, ErrAuthFailed) {
		return &UserError{
			Message: "Authentication failed",
			Hint:    "Check that your API token is valid.\n  - GitHub: set GITHUB_TOKEN\n  - Anthropic: set ANTHROPIC_API_KEY",
			Err:     err,
		}
	}

	if errors.Is(err, ErrRateLimited) {
		return &UserError{
			Message: "Provider rate limit reached",
			Hint:    "Wait a moment and retry; patrol does not retry internally.",
			Err:     err,
		}
	}

	return err
}
