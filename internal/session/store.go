package session

import (
	"context"
	"time"
)

// Store persists sessions keyed by user id.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the session for userID, or (nil, nil) when none exists.
	Get(ctx context.Context, userID string) (*Session, error)

	// GetOrCreate returns the existing session or creates a new_user one.
	GetOrCreate(ctx context.Context, userID string) (*Session, error)

	// Put saves the session, stamping LastUpdated.
	Put(ctx context.Context, sess *Session) error

	// Delete removes the session for userID. Missing sessions are a no-op.
	Delete(ctx context.Context, userID string) error

	// All returns every stored session.
	All(ctx context.Context) ([]*Session, error)

	// Count returns the number of stored sessions.
	Count(ctx context.Context) (int, error)

	// PruneOlderThan deletes sessions not updated within maxAge and
	// returns how many were removed.
	PruneOlderThan(ctx context.Context, maxAge time.Duration) (int, error)
}
