package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyAudio      = errors.New("audio buffer is empty")
	ErrAudioTooLarge   = errors.New("audio buffer exceeds the size limit")
	ErrTooManySessions = errors.New("too many active capture sessions")
	ErrItemUnavailable = errors.New("menu item is unavailable")
	ErrOrderNotOpen    = errors.New("order is not open")
	ErrEmptyOrder      = errors.New("order has no items")
)

// MissingCredentialError indicates a required secret was absent from
// every configured source. Fatal for the voice features at startup,
// non-fatal for the rest of the application.
type MissingCredentialError struct {
	Name string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s", e.Name)
}

// PermissionDeniedError indicates the client did not grant microphone
// access. Recoverable: the user can re-request permission.
type PermissionDeniedError struct {
	Reason string
}

func (e *PermissionDeniedError) Error() string {
	if e.Reason == "" {
		return "microphone permission denied"
	}
	return fmt.Sprintf("microphone permission denied: %s", e.Reason)
}

// InvalidStateError indicates a capture-session transition that is not
// legal from the current state. A correct caller never triggers it.
type InvalidStateError struct {
	State CaptureState
	Event string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid capture transition: %s while %s", e.Event, e.State)
}

// InvalidOrderTransitionError indicates an illegal order status change.
type InvalidOrderTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidOrderTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition: %s -> %s", e.From, e.To)
}

// TranscriptionErrorKind classifies a failed transcription.
type TranscriptionErrorKind string

const (
	TranscriptionTimeout      TranscriptionErrorKind = "timeout"
	TranscriptionNetwork      TranscriptionErrorKind = "network"
	TranscriptionServiceError TranscriptionErrorKind = "service_error"
)

// TranscriptionError is returned when the gateway exhausted its retry
// budget. Attempts counts every request made, including the failed
// ones.
type TranscriptionError struct {
	Kind     TranscriptionErrorKind
	Attempts int
	Err      error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed (%s) after %d attempt(s): %v", e.Kind, e.Attempts, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// AuthenticationError indicates the transcription provider rejected the
// credential. Never retried: it is a configuration problem, not a
// transient failure.
type AuthenticationError struct {
	Provider   string
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s rejected credential (status %d)", e.Provider, e.StatusCode)
}
