package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/midnightbrew/cafe-api/internal/auth"
	"github.com/midnightbrew/cafe-api/internal/model"
)

// SessionRepo is the MySQL implementation of auth.SessionStore.  The
// server is the single writer of a session's mutable fields and every
// legal write either moves the expiry forward or sets is_active=false,
// so concurrent refreshes from one browser are left unserialized:
// last-write-wins cannot resurrect a dead session.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// compile-time interface check
var _ auth.SessionStore = (*SessionRepo)(nil)

const sessionCols = "id,session_id,user_id,is_active,created_at,last_activity,expires_at,user_agent,ip_address"

// Create inserts a new session row.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (session_id, user_id, is_active, created_at, last_activity, expires_at, user_agent, ip_address) VALUES (?,?,?,?,?,?,?,?)",
		s.SessionID, s.UserID, s.IsActive, s.CreatedAt, s.LastActivity, s.ExpiresAt, s.UserAgent, s.IPAddress)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetActive returns the active session matching both identifiers.
// Inactive and missing rows are indistinguishable to callers.
func (r *SessionRepo) GetActive(ctx context.Context, sessionID string, userID uint64) (*model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+sessionCols+" FROM sessions WHERE session_id=? AND user_id=? AND is_active=1 LIMIT 1",
		sessionID, userID).
		Scan(&s.ID, &s.SessionID, &s.UserID, &s.IsActive, &s.CreatedAt, &s.LastActivity, &s.ExpiresAt, &s.UserAgent, &s.IPAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update persists the mutable lifecycle fields of an existing session.
func (r *SessionRepo) Update(ctx context.Context, s *model.Session) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET is_active=?, last_activity=?, expires_at=? WHERE session_id=?",
		s.IsActive, s.LastActivity, s.ExpiresAt, s.SessionID)
	return err
}

// Deactivate flips one session inactive.  Zero affected rows means the
// session was missing or already inactive, which is fine.
func (r *SessionRepo) Deactivate(ctx context.Context, sessionID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET is_active=0 WHERE session_id=? AND is_active=1", sessionID)
	return err
}

// DeactivateAllForUser flips every active session of one user inactive.
func (r *SessionRepo) DeactivateAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET is_active=0 WHERE user_id=? AND is_active=1", userID)
	return err
}

// DeactivateAll flips every active session inactive (boot policy).
func (r *SessionRepo) DeactivateAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE sessions SET is_active=0 WHERE is_active=1")
	return err
}

// DeleteDead removes sessions that are inactive or expired as of now
// and reports how many rows were deleted.
func (r *SessionRepo) DeleteDead(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM sessions WHERE is_active=0 OR expires_at < ?", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
