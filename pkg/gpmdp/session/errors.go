package session

import "errors"

var (
	// ErrTimeout is returned when the watchdog fires before the session is done.
	ErrTimeout = errors.New("command timeout")

	// ErrUnauthorized is returned when the server asks for a pairing code
	// instead of accepting the configured token, or rejects a pairing code.
	ErrUnauthorized = errors.New("not authorized")

	// ErrConnectionClosed is returned when the server closes the connection
	// before the session is done.
	ErrConnectionClosed = errors.New("connection closed by server")
)
