package session

import "sync"

type entry struct {
	mu      sync.Mutex
	session *Session
}

// Registry is the concurrency-safe session map keyed by user id. Sessions
// are created on first contact and locked for the full
// validate-dispatch-mutate cycle of one intent.
type Registry struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[int64]*entry)}
}

// TryAcquire locks the session for userID, creating it if absent. It returns
// the session and a release function, or ok=false when another intent for
// the same user is already in flight. The caller must invoke release exactly
// once when ok is true.
func (r *Registry) TryAcquire(userID int64) (*Session, func(), bool) {
	e := r.entryFor(userID)
	if !e.mu.TryLock() {
		return nil, nil, false
	}
	return e.session, e.mu.Unlock, true
}

func (r *Registry) entryFor(userID int64) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok {
		e = &entry{session: &Session{UserID: userID, State: StateAwaitingURL}}
		r.entries[userID] = e
	}
	return e
}

// Len returns the number of known sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Summary is a read-only view of one session for status reporting.
type Summary struct {
	UserID int64  `json:"user_id"`
	State  string `json:"state"`
	Title  string `json:"title,omitempty"`
}

// Snapshot returns a point-in-time view of every session. Sessions with an
// in-flight intent are skipped rather than waited on, so status reporting
// can never stall a pipeline.
func (r *Registry) Snapshot() []Summary {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	summaries := make([]Summary, 0, len(entries))
	for _, e := range entries {
		if !e.mu.TryLock() {
			continue
		}
		summary := Summary{UserID: e.session.UserID, State: string(e.session.State)}
		if e.session.Ref != nil {
			summary.Title = e.session.Ref.Title
		}
		e.mu.Unlock()
		summaries = append(summaries, summary)
	}
	return summaries
}
