package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches every *NetworkError via errors.Is.
	ErrNetwork = errors.New("network error")
	// ErrUnauthenticated means the backend redirected to its login page.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrBadCredentials means a login attempt was rejected.
	ErrBadCredentials = errors.New("invalid username/email or password")
)

// NetworkError is a failed outbound call: transport failure, non-success
// status, an explicit {"success": false}, or an undecodable body.
type NetworkError struct {
	Op         string // e.g. "toggle task 3"
	StatusCode int    // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// Retryable reports whether repeating the same idempotent request may succeed.
func (e *NetworkError) Retryable() bool {
	if errors.Is(e.Err, ErrUnauthenticated) {
		return false
	}
	return e.StatusCode == 0 || e.StatusCode >= 500 || e.StatusCode == 429
}

func netErr(op string, status int, err error) error {
	return &NetworkError{Op: op, StatusCode: status, Err: err}
}
