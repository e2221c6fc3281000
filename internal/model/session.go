package model

import "time"

// Session models a row in the `sessions` table.  A session is the
// server-side record behind one issued token: the token is a disposable
// capability and the session is the source of truth for whether it is
// still usable.  A session is either active and unexpired (valid),
// active but past ExpiresAt (logically dead, deactivated lazily on the
// next authentication attempt), or inactive (explicitly revoked).  No
// transition ever re-activates a session; a new login creates a new row.
//
// Fields:
//  ID           – primary key identifier.
//  SessionID    – opaque random identifier embedded in the token.
//  UserID       – owner of the session.
//  IsActive     – false once revoked or detected expired.
//  CreatedAt    – when the session was issued.
//  LastActivity – last successful authenticated request.
//  ExpiresAt    – sliding expiry, recomputed as now+TTL on each use.
//  UserAgent    – client User-Agent at issuance (diagnostic only).
//  IPAddress    – client source address at issuance (diagnostic only).
type Session struct {
	ID           uint64    // sessions.id
	SessionID    string    // sessions.session_id
	UserID       uint64    // sessions.user_id
	IsActive     bool      // sessions.is_active
	CreatedAt    time.Time // sessions.created_at
	LastActivity time.Time // sessions.last_activity
	ExpiresAt    time.Time // sessions.expires_at
	UserAgent    string    // sessions.user_agent
	IPAddress    string    // sessions.ip_address
}

// IsExpired reports whether the session is past its expiry at the given
// instant.  Persistence of the resulting state change is the caller's
// responsibility.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Refresh slides the expiry window forward: last activity becomes now
// and the expiry becomes now+ttl.  The mutation is in-memory only; the
// caller persists it explicitly.
func (s *Session) Refresh(now time.Time, ttl time.Duration) {
	s.LastActivity = now
	s.ExpiresAt = now.Add(ttl)
}
