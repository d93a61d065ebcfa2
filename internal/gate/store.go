package gate

import (
	"sync"
	"time"

	"chartfolio/domain/core"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 12 * time.Hour

type session struct {
	values   map[string]string
	lastSeen time.Time
}

// Store is an in-memory session store keyed by session id. Sessions end when the
// process exits, like browser session storage ends with the tab.
type Store struct {
	mu       sync.Mutex
	sessions map[core.SessionID]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store; ttl <= 0 uses DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{sessions: make(map[core.SessionID]*session), ttl: ttl, now: time.Now}
}

// Create starts an empty session.
func (s *Store) Create() core.SessionID {
	id := core.SessionID(core.NewID())
	s.mu.Lock()
	s.sessions[id] = &session{values: make(map[string]string), lastSeen: s.now()}
	s.mu.Unlock()
	return id
}

// Get returns a value from a live session and refreshes its idle timer.
func (s *Store) Get(id core.SessionID, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.live(id)
	if sess == nil {
		return "", false
	}
	sess.lastSeen = s.now()
	v, ok := sess.values[key]
	return v, ok
}

// Set stores a value, reporting false when the session does not exist or expired.
func (s *Store) Set(id core.SessionID, key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.live(id)
	if sess == nil {
		return false
	}
	sess.values[key] = value
	sess.lastSeen = s.now()
	return true
}

// Delete ends a session.
func (s *Store) Delete(id core.SessionID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len is the number of sessions held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) live(id core.SessionID) *session {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if s.expired(sess) {
		delete(s.sessions, id)
		return nil
	}
	return sess
}

func (s *Store) expired(sess *session) bool {
	return s.now().Sub(sess.lastSeen) > s.ttl
}
