package session

import "reel/internal/media"

// State represents where a conversation sits in the retrieval workflow.
type State string

const (
	StateAwaitingURL        State = "awaiting_url"
	StateAwaitingFormat     State = "awaiting_format"
	StateAwaitingResolution State = "awaiting_resolution"
)

var allStates = []State{
	StateAwaitingURL,
	StateAwaitingFormat,
	StateAwaitingResolution,
}

// Valid reports whether the state is one of the defined workflow states.
func (s State) Valid() bool {
	for _, state := range allStates {
		if s == state {
			return true
		}
	}
	return false
}

// Session carries one user's conversation state and in-progress selection.
// Only the engine reads or writes it, and only while holding the session's
// registry lock.
//
// Invariants: Catalog is non-nil only in StateAwaitingResolution; Ref is nil
// only in StateAwaitingURL.
type Session struct {
	UserID  int64
	ChatID  int64
	State   State
	Ref     *media.Ref
	Catalog []media.Stream
}

// Reset returns the session to its initial state with selection data cleared.
func (s *Session) Reset() {
	s.State = StateAwaitingURL
	s.Ref = nil
	s.Catalog = nil
}
