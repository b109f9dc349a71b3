package websocket

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// State is where a realtime session is in its lifecycle:
// Connecting -> Authenticated -> Authorized -> Active -> Closed, with Rejected
// reachable from any state before Active.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticated
	StateAuthorized
	StateActive
	StateClosed
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateAuthorized:
		return "authorized"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

var transitions = map[State][]State{
	StateConnecting:    {StateAuthenticated, StateRejected},
	StateAuthenticated: {StateAuthorized, StateRejected},
	StateAuthorized:    {StateActive, StateRejected},
	StateActive:        {StateClosed},
}

type Session struct {
	mu     sync.Mutex
	state  State
	userID uuid.UUID
	roomID uuid.UUID
}

func NewSession(roomID uuid.UUID) *Session {
	return &Session{state: StateConnecting, roomID: roomID}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) UserID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) RoomID() uuid.UUID {
	return s.roomID
}

// Authenticate records the caller identity established by the handshake.
func (s *Session) Authenticate(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transitionLocked(StateAuthenticated); err != nil {
		return err
	}
	s.userID = userID
	return nil
}

func (s *Session) Authorize() error { return s.transition(StateAuthorized) }

func (s *Session) Activate() error { return s.transition(StateActive) }

func (s *Session) Reject() error { return s.transition(StateRejected) }

// Close ends an active session. Closing a finished session is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed || s.state == StateRejected {
		return nil
	}
	return s.transitionLocked(StateClosed)
}

func (s *Session) transition(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(to)
}

func (s *Session) transitionLocked(to State) error {
	for _, next := range transitions[s.state] {
		if next == to {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
}
