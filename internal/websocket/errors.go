package websocket

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrSessionClosed     = errors.New("session is closed")
	ErrInvalidMessage    = errors.New("invalid message format")
)
