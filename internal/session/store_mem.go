package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is a concurrency-safe, in-memory Store. It is the default
// when no persistence module is configured, and the workhorse of tests.
// Sessions are cloned on the way in and out so callers never share memory
// with the store. The `now` function is injectable for deterministic tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	now func() time.Time
}

// NewMemoryStore creates a ready-to-use in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// SetClock overrides the store's clock. Tests only.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func clone(sess *Session) (*Session, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("clone session: %w", err)
	}
	out := &Session{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("clone session: %w", err)
	}
	return out, nil
}

// Get returns the session for userID, or (nil, nil) when none exists.
func (s *MemoryStore) Get(_ context.Context, userID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	return clone(sess)
}

// GetOrCreate returns the existing session or creates a new_user one.
func (s *MemoryStore) GetOrCreate(_ context.Context, userID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return clone(sess)
	}
	sess := New(userID)
	sess.LastUpdated = s.now()
	s.sessions[userID] = sess
	return clone(sess)
}

// Put saves the session, stamping LastUpdated.
func (s *MemoryStore) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.LastUpdated = s.now()
	stored, err := clone(sess)
	if err != nil {
		return err
	}
	s.sessions[sess.UserID] = stored
	return nil
}

// Delete removes the session for userID.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// All returns every stored session.
func (s *MemoryStore) All(_ context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		c, err := clone(sess)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Count returns the number of stored sessions.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// PruneOlderThan deletes sessions not updated within maxAge.
func (s *MemoryStore) PruneOlderThan(_ context.Context, maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	pruned := 0
	for id, sess := range s.sessions {
		if sess.LastUpdated.Before(cutoff) {
			delete(s.sessions, id)
			pruned++
		}
	}
	return pruned, nil
}
