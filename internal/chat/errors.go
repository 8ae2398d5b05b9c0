package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates the user text was empty or whitespace.
	// Callers ignore it silently; nothing was sent or recorded.
	ErrEmptyInput = errors.New("empty input")

	// ErrEmptyReply indicates a nominally successful remote call that
	// produced no assistant text
	ErrEmptyReply = errors.New("assistant returned no response")

	// ErrCredentialMissing indicates the direct path was required but no
	// fallback credential could be found
	ErrCredentialMissing = errors.New("fallback credential not configured")

	// ErrUnreadableResponse indicates the response arrived but its body
	// could not be read
	ErrUnreadableResponse = errors.New("response body could not be read")

	// ErrInvalidResponse indicates the response body was not valid JSON
	ErrInvalidResponse = errors.New("response body is not valid JSON")
)

// RemoteError is a non-success status or an explicit error field
// reported by the remote completion service.
type RemoteError struct {
	Status int
	Reason string
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Reason)
	}
	return "remote error: " + e.Reason
}

// FallbackUnavailableError reports a failed proxy call that could not
// fall back because no credential was found.
type FallbackUnavailableError struct {
	ProxyErr error
}

func (e *FallbackUnavailableError) Error() string {
	return fmt.Sprintf("proxy could not be reached (%v) and no fallback credential was found", e.ProxyErr)
}

func (e *FallbackUnavailableError) Unwrap() error {
	return e.ProxyErr
}
