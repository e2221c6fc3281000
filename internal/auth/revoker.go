package auth

import (
	"context"
	"log"
)

// Revoker invalidates sessions.  Revocation is terminal: tokens that
// reference a revoked session stay rejected forever, regardless of
// their own signature expiry.
type Revoker struct {
	Sessions SessionStore
}

func NewRevoker(sessions SessionStore) *Revoker {
	return &Revoker{Sessions: sessions}
}

// Revoke deactivates one session (single-device logout).  Revoking a
// missing or already-inactive session is a no-op success.
func (r *Revoker) Revoke(ctx context.Context, sessionID string) error {
	if err := r.Sessions.Deactivate(ctx, sessionID); err != nil {
		log.Printf("auth: revoke session failed: %v", err)
		return err
	}
	return nil
}

// RevokeAllForUser deactivates every active session owned by the user
// (logout everywhere).  Sessions of other users are untouched, and zero
// active sessions is still a success.
func (r *Revoker) RevokeAllForUser(ctx context.Context, userID uint64) error {
	if err := r.Sessions.DeactivateAllForUser(ctx, userID); err != nil {
		log.Printf("auth: revoke all sessions for user %d failed: %v", userID, err)
		return err
	}
	return nil
}

// RevokeAll deactivates every active session globally.  Called at boot
// when the deployment wants every client to log in again after a
// restart.
func (r *Revoker) RevokeAll(ctx context.Context) error {
	if err := r.Sessions.DeactivateAll(ctx); err != nil {
		log.Printf("auth: revoke all sessions failed: %v", err)
		return err
	}
	return nil
}
