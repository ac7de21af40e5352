package brokerage

import (
	"errors"
	"fmt"
)

// APIError is a server-reported failure: the backend answered with a non-2xx
// status and, when available, a human-readable message from its error payload.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}

// ConnectivityError is a transport-level failure: the backend could not be
// reached at all (DNS, refused connection, timeout).
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsConnectivity reports whether err is a transport-level failure, so the UI
// can tell "no connectivity" apart from a server-reported error.
func IsConnectivity(err error) bool {
	var connErr *ConnectivityError
	return errors.As(err, &connErr)
}

// ServerMessage extracts the backend's human-readable message from err, if
// err is a server-reported APIError.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, true
	}
	return "", false
}
