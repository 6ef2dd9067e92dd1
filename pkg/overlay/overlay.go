// Package overlay implements the optimistic-update store: a keyed set of
// locally modified sessions merged over authoritative data until the server
// catches up or the operation fails.
package overlay

import (
	"sync"
	"time"

	"github.com/Guisb12/lusia-cal/pkg/session"
)

// reconcileTolerance is how close the authoritative start/end must be to the
// optimistic values before the overlay entry is considered confirmed.
const reconcileTolerance = time.Second

// Store is a key-value overlay of session replacements. It knows nothing
// about network outcomes; callers Apply on commit, Clear on failure, and
// Reconcile whenever authoritative data arrives.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
}

// NewStore returns an empty overlay.
func NewStore() *Store {
	return &Store{sessions: make(map[string]session.Session)}
}

// Apply inserts or overwrites the replacement for id. Later applies to the
// same id win unconditionally.
func (s *Store) Apply(id string, replacement session.Session) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	replacement.ID = id
	s.sessions[id] = replacement
}

// Clear drops the overlay entry for id, reverting merged views to whatever
// authoritative data is current.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Get returns the overlay replacement for id, if any.
func (s *Store) Get(id string) (session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.sessions[id]
	return v, ok
}

// Len reports how many sessions are currently shadowed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Reconcile clears every overlay entry whose authoritative counterpart has
// caught up: both start and end within the tolerance of the optimistic
// values. Idempotent; safe to run on every refetch.
func (s *Store) Reconcile(authoritative []session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) == 0 {
		return
	}
	for _, a := range authoritative {
		o, ok := s.sessions[a.ID]
		if !ok {
			continue
		}
		if within(a.StartsAt, o.StartsAt, reconcileTolerance) &&
			within(a.EndsAt, o.EndsAt, reconcileTolerance) {
			delete(s.sessions, a.ID)
		}
	}
}

// Merge returns the authoritative list with overlay replacements substituted
// in place. The input slice is not modified.
func (s *Store) Merge(authoritative []session.Session) []session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.sessions) == 0 {
		out := make([]session.Session, len(authoritative))
		copy(out, authoritative)
		return out
	}
	out := make([]session.Session, len(authoritative))
	for i, a := range authoritative {
		if o, ok := s.sessions[a.ID]; ok {
			out[i] = o
			continue
		}
		out[i] = a
	}
	return out
}

func within(a, b time.Time, tolerance time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < tolerance
}
