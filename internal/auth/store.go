// Package auth implements the authenticated session lifecycle: token
// issuance backed by a server-side session record, validation with a
// sliding expiry refresh on every request, revocation of one or all
// sessions, and garbage collection of dead rows.  Storage is injected
// behind small interfaces so the lifecycle logic is independent of the
// database driver.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/midnightbrew/cafe-api/internal/model"
)

// ErrSessionNotFound is returned when no active session matches the
// identifiers embedded in a token.  It covers both "never existed" and
// "already revoked"; callers must not distinguish the two.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists session records.  Implementations must treat
// the {session id, user id, active} triple as the lookup key for
// authentication and must never resurrect an inactive session.
type SessionStore interface {
	// Create inserts a new session row.
	Create(ctx context.Context, s *model.Session) error
	// GetActive returns the active session matching sessionID and
	// userID, or ErrSessionNotFound.  Expiry is not checked here; the
	// authenticator owns that decision.
	GetActive(ctx context.Context, sessionID string, userID uint64) (*model.Session, error)
	// Update persists IsActive, LastActivity and ExpiresAt for an
	// existing row identified by its SessionID.
	Update(ctx context.Context, s *model.Session) error
	// Deactivate sets is_active=false on one session.  Deactivating a
	// missing or already-inactive session is a no-op, not an error.
	Deactivate(ctx context.Context, sessionID string) error
	// DeactivateAllForUser sets is_active=false on every active session
	// owned by the user.  Other users' sessions are untouched.
	DeactivateAllForUser(ctx context.Context, userID uint64) error
	// DeactivateAll sets is_active=false on every active session.  Used
	// by the optional force-relogin-on-boot policy.
	DeactivateAll(ctx context.Context) error
	// DeleteDead removes every session that is inactive or expired as
	// of now and returns how many rows were removed.
	DeleteDead(ctx context.Context, now time.Time) (int64, error)
}

// UserStore is the credential store surface the auth core needs: role
// lookups for the admin gate and identity loads for /me.  The full user
// repository implements it.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}
