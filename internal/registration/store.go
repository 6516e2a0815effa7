package registration

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an untouched session flow is kept.
const DefaultSessionTTL = 30 * time.Minute

type session struct {
	flow    *Flow
	touched time.Time
}

// Store owns the flow of every browser session, keyed by session id. Flows
// not touched within the TTL are dropped by Sweep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore keeps sessions for ttl after their last use. A non-positive ttl
// falls back to DefaultSessionTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session's flow and marks it as used. Expired sessions are
// reported as missing.
func (s *Store) Get(id string) (*Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.touched = now
	return sess.flow, true
}

// Start registers a new empty flow under a fresh session id.
func (s *Store) Start() (string, *Flow) {
	id := uuid.NewString()
	f := NewFlow(Draft{})

	s.mu.Lock()
	s.sessions[id] = &session{flow: f, touched: s.now()}
	s.mu.Unlock()
	return id, f
}

// Restart replaces the session's flow with a new one seeded from seed.
func (s *Store) Restart(id string, seed Draft) *Flow {
	f := NewFlow(seed)

	s.mu.Lock()
	s.sessions[id] = &session{flow: f, touched: s.now()}
	s.mu.Unlock()
	return f
}

// Sweep drops expired sessions and returns how many were removed. A flow
// with a submission in flight is kept.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *session, now time.Time) bool {
	if now.Sub(sess.touched) < s.ttl {
		return false
	}
	return !sess.flow.State().Submitting
}
