package auth

import (
	"context"
	"time"

	"github.com/midnightbrew/cafe-api/internal/model"
	"github.com/midnightbrew/cafe-api/internal/utils"
)

// RequestMeta carries diagnostic client metadata recorded on the
// session at issuance.  Empty values are fine.
type RequestMeta struct {
	UserAgent string
	IPAddress string
}

// Issuer mints signed tokens, each backed by exactly one new session
// row.  SessionTTL governs the sliding session expiry; TokenTTL governs
// the signature expiry.  Both default to 24h and should normally be
// kept equal, but they are configured independently.
type Issuer struct {
	Sessions   SessionStore
	Secret     string
	SessionTTL time.Duration
	TokenTTL   time.Duration

	now func() time.Time
}

// NewIssuer builds an Issuer.  Non-positive TTLs fall back to 24h.
func NewIssuer(sessions SessionStore, secret string, sessionTTL, tokenTTL time.Duration) *Issuer {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Issuer{
		Sessions:   sessions,
		Secret:     secret,
		SessionTTL: sessionTTL,
		TokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// Issue creates a session for the already-authenticated user and
// returns the signed token referencing it.  The session identifier is
// 32 bytes of crypto/rand output, never derived from user data.  If the
// session cannot be persisted no token is returned: a token must never
// exist without its backing session.
func (i *Issuer) Issue(ctx context.Context, u *model.User, meta RequestMeta) (string, *model.Session, error) {
	sid, err := utils.RandomHex(32)
	if err != nil {
		return "", nil, err
	}
	now := i.now().UTC()
	s := &model.Session{
		SessionID:    sid,
		UserID:       u.ID,
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(i.SessionTTL),
		UserAgent:    meta.UserAgent,
		IPAddress:    meta.IPAddress,
	}
	if err := i.Sessions.Create(ctx, s); err != nil {
		return "", nil, err
	}
	claims := newClaims(u.ID, u.Email, u.FirstName, u.LastName, sid, now, i.TokenTTL)
	token, err := SignToken(i.Secret, claims)
	if err != nil {
		return "", nil, err
	}
	return token, s, nil
}
