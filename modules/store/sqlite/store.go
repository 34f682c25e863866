package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/voltmesh/solarbot/internal/session"
)

// sessionStore implements session.Store backed by SQLite. Timestamps are
// stored as unix milliseconds so pruning is a range scan on the index.
type sessionStore struct {
	db  *sql.DB
	now func() time.Time
}

// Get returns the session for userID, or (nil, nil) when none exists.
func (s *sessionStore) Get(ctx context.Context, userID string) (*session.Session, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM sessions WHERE user_id = ?", userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get session %s: %w", userID, err)
	}

	sess := &session.Session{}
	if err := json.Unmarshal(raw, sess); err != nil {
		return nil, fmt.Errorf("sqlite: decode session %s: %w", userID, err)
	}
	return sess, nil
}

// GetOrCreate returns the existing session or creates a new_user one.
func (s *sessionStore) GetOrCreate(ctx context.Context, userID string) (*session.Session, error) {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	sess = session.New(userID)
	if err := s.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Put saves the session, stamping LastUpdated.
func (s *sessionStore) Put(ctx context.Context, sess *session.Session) error {
	sess.LastUpdated = s.now()

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("sqlite: encode session %s: %w", sess.UserID, err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO sessions (user_id, state, data, updated_at) VALUES (?, ?, ?, ?)",
		sess.UserID, sess.State, raw, sess.LastUpdated.UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite: put session %s: %w", sess.UserID, err)
	}
	return nil
}

// Delete removes the session for userID. Missing sessions are a no-op.
func (s *sessionStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("sqlite: delete session %s: %w", userID, err)
	}
	return nil
}

// All returns every stored session, oldest update first.
func (s *sessionStore) All(ctx context.Context) ([]*session.Session, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data FROM sessions ORDER BY updated_at")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list sessions: %w", err)
	}
	defer rows.Close()

	var out []*session.Session
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("sqlite: scan session: %w", err)
		}
		sess := &session.Session{}
		if err := json.Unmarshal(raw, sess); err != nil {
			return nil, fmt.Errorf("sqlite: decode session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Count returns the number of stored sessions.
func (s *sessionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count sessions: %w", err)
	}
	return n, nil
}

// PruneOlderThan deletes sessions not updated within maxAge and returns
// how many were removed.
func (s *sessionStore) PruneOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.now().Add(-maxAge).UnixMilli()
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE updated_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: prune sessions: %w", err)
	}
	return int(n), nil
}
