package auth

import (
	"context"
	"errors"
	"time"

	"github.com/midnightbrew/cafe-api/internal/model"
)

// ErrSessionExpired is returned when the token's session exists but is
// past its expiry.  Detecting this also flips the session inactive so
// later checks short-circuit to ErrSessionNotFound and the janitor has
// less to sweep.
var ErrSessionExpired = errors.New("session expired")

// IsAuthFailure reports whether err is an expected authentication
// outcome rather than an infrastructure fault.  Callers translate
// expected outcomes into a uniform "please log in" response and
// everything else into a server error — never into an auth decision.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionExpired)
}

// Authenticator resolves a raw bearer token into an identity, double
// checking the session store on every call.  Each successful call
// slides the session's expiry forward by SessionTTL.
type Authenticator struct {
	Sessions   SessionStore
	Secret     string
	SessionTTL time.Duration

	now func() time.Time
}

// NewAuthenticator builds an Authenticator.  A non-positive TTL falls
// back to 24h.
func NewAuthenticator(sessions SessionStore, secret string, sessionTTL time.Duration) *Authenticator {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Authenticator{
		Sessions:   sessions,
		Secret:     secret,
		SessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Authenticate verifies the token signature and expiry, cross-checks
// the referenced session, deactivates it if it turned out to be past
// its expiry, and otherwise refreshes it (sliding window) before
// returning the resolved identity and session.
//
// Expected failures are ErrInvalidToken, ErrSessionNotFound and
// ErrSessionExpired.  Any other error is a storage fault and must be
// treated as a rejection by the caller (fail closed), never as an
// anonymous downgrade.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (*Claims, *model.Session, error) {
	claims, err := parseTokenAt(a.Secret, raw, a.now)
	if err != nil {
		return nil, nil, err
	}

	s, err := a.Sessions.GetActive(ctx, claims.SessionID, claims.UserID)
	if err != nil {
		return nil, nil, err
	}

	now := a.now().UTC()
	if s.IsExpired(now) {
		s.IsActive = false
		// Best effort: the reject stands even if the flip fails, and the
		// janitor will catch the row later.
		_ = a.Sessions.Update(ctx, s)
		return nil, nil, ErrSessionExpired
	}

	s.Refresh(now, a.SessionTTL)
	if err := a.Sessions.Update(ctx, s); err != nil {
		return nil, nil, err
	}
	return claims, s, nil
}
