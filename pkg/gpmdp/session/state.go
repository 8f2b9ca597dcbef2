package session

import "fmt"

// State is a point in the session lifecycle.
type State int

const (
	StateConnecting State = iota
	StateAuthenticating
	StateAwaitingChannels
	StateDispatching
	StateAwaitingResponse
	StateDone
	StateError
)

var stateNames = [...]string{
	StateConnecting:       "connecting",
	StateAuthenticating:   "authenticating",
	StateAwaitingChannels: "awaiting-channels",
	StateDispatching:      "dispatching",
	StateAwaitingResponse: "awaiting-response",
	StateDone:             "done",
	StateError:            "error",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further messages are processed in s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateError
}

// pairPhase tracks the two-step pairing handshake.
type pairPhase int

const (
	pairNone pairPhase = iota
	pairAwaitingCodeRequest
	pairAwaitingToken
)
