package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnightbrew/cafe-api/internal/model"
)

var testUser = &model.User{
	ID:        42,
	Email:     "leila@example.com",
	FirstName: "Leila",
	LastName:  "Marchetti",
}

// fixture wires an issuer and authenticator to the same store and a
// controllable clock.
type fixture struct {
	store *memStore
	iss   *Issuer
	authn *Authenticator
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: newMemStore(),
		clock: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.iss = NewIssuer(f.store, testSecret, 24*time.Hour, 24*time.Hour)
	f.authn = NewAuthenticator(f.store, testSecret, 24*time.Hour)
	f.iss.now = f.now
	f.authn.now = f.now
	return f
}

func (f *fixture) now() time.Time { return f.clock }

func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

func TestIssueCreatesBackingSession(t *testing.T) {
	f := newFixture(t)

	token, s, err := f.iss.Issue(context.Background(), testUser, RequestMeta{UserAgent: "ua", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored := f.store.get(s.SessionID)
	require.NotNil(t, stored)
	assert.True(t, stored.IsActive)
	assert.Equal(t, testUser.ID, stored.UserID)
	assert.Equal(t, "ua", stored.UserAgent)
	assert.Equal(t, "10.0.0.1", stored.IPAddress)
	assert.Equal(t, f.clock.Add(24*time.Hour), stored.ExpiresAt)
	// 32 random bytes, hex encoded.
	assert.Len(t, s.SessionID, 64)
}

func TestIssueDistinctSessionsPerLogin(t *testing.T) {
	f := newFixture(t)

	_, s1, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)
	_, s2, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	assert.NotEqual(t, s1.SessionID, s2.SessionID)
	assert.Equal(t, 2, f.store.count())
}

func TestIssueNoTokenWithoutSession(t *testing.T) {
	f := newFixture(t)
	f.store.fail = errors.New("disk on fire")

	token, s, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Nil(t, s)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	f := newFixture(t)

	token, issued, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	claims, s, err := f.authn.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.UserID)
	assert.Equal(t, testUser.Email, claims.Email)
	assert.Equal(t, issued.SessionID, s.SessionID)
}

func TestAuthenticateSlidesExpiry(t *testing.T) {
	f := newFixture(t)

	token, issued, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)
	firstExpiry := issued.ExpiresAt

	f.advance(10 * time.Hour)
	_, s, err := f.authn.Authenticate(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, f.clock.Add(24*time.Hour), s.ExpiresAt)
	assert.True(t, s.ExpiresAt.After(firstExpiry))
	assert.Equal(t, f.clock, s.LastActivity)

	// The refresh is persisted, not just returned.
	stored := f.store.get(issued.SessionID)
	assert.Equal(t, s.ExpiresAt, stored.ExpiresAt)
}

func TestAuthenticateKeepsSessionAliveAcrossGaps(t *testing.T) {
	f := newFixture(t)
	f.iss.TokenTTL = 100 * time.Hour // keep the signature valid throughout

	token, _, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	// Three visits 20h apart: each inside the sliding window even
	// though the total span is far past the original expiry.
	for i := 0; i < 3; i++ {
		f.advance(20 * time.Hour)
		_, _, err := f.authn.Authenticate(context.Background(), token)
		require.NoError(t, err, "visit %d", i)
	}
}

func TestAuthenticateExpiredSessionDeactivates(t *testing.T) {
	f := newFixture(t)
	f.iss.TokenTTL = 100 * time.Hour

	token, issued, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	f.advance(25 * time.Hour)
	_, _, err = f.authn.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	stored := f.store.get(issued.SessionID)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)

	// The next attempt short-circuits on the inactive row.
	_, _, err = f.authn.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuthenticateTokenSignatureExpiry(t *testing.T) {
	// A session can outlive the token's own expiry: the signature check
	// uses the same clock as the session check and rejects first.
	f := newFixture(t)
	f.iss.TokenTTL = time.Hour

	token, issued, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	f.advance(2 * time.Hour)
	_, _, err = f.authn.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The session row is untouched; only the token is dead.
	assert.True(t, f.store.get(issued.SessionID).IsActive)
}

func TestAuthenticateTamperedToken(t *testing.T) {
	f := newFixture(t)

	token, _, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	_, _, err = f.authn.Authenticate(context.Background(), token+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateUnknownSession(t *testing.T) {
	f := newFixture(t)

	// Well-formed token whose session was never persisted.
	claims := newClaims(testUser.ID, testUser.Email, "", "", "no-such-session", f.clock, time.Hour)
	token, err := SignToken(testSecret, claims)
	require.NoError(t, err)

	_, _, err = f.authn.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuthenticateStorageFaultIsNotAuthFailure(t *testing.T) {
	f := newFixture(t)

	token, _, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	boom := errors.New("connection reset")
	f.store.fail = boom

	_, _, err = f.authn.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsAuthFailure(err))
}

func TestIsAuthFailure(t *testing.T) {
	assert.True(t, IsAuthFailure(ErrInvalidToken))
	assert.True(t, IsAuthFailure(ErrSessionNotFound))
	assert.True(t, IsAuthFailure(ErrSessionExpired))
	assert.False(t, IsAuthFailure(errors.New("db gone")))
	assert.False(t, IsAuthFailure(nil))
}

func TestRevokeSingleSession(t *testing.T) {
	f := newFixture(t)
	rev := NewRevoker(f.store)

	tokenA, sA, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)
	tokenB, _, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, rev.Revoke(context.Background(), sA.SessionID))

	_, _, err = f.authn.Authenticate(context.Background(), tokenA)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The other device stays logged in.
	_, _, err = f.authn.Authenticate(context.Background(), tokenB)
	assert.NoError(t, err)
}

func TestRevokeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	rev := NewRevoker(f.store)

	_, s, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, rev.Revoke(context.Background(), s.SessionID))
	require.NoError(t, rev.Revoke(context.Background(), s.SessionID))
	require.NoError(t, rev.Revoke(context.Background(), "never-existed"))
}

func TestRevokeAllForUserLeavesOthersAlone(t *testing.T) {
	f := newFixture(t)
	rev := NewRevoker(f.store)
	other := &model.User{ID: 99, Email: "tomas@example.com"}

	t1, _, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)
	t2, _, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)
	tOther, _, err := f.iss.Issue(context.Background(), other, RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, rev.RevokeAllForUser(context.Background(), testUser.ID))

	for _, tok := range []string{t1, t2} {
		_, _, err := f.authn.Authenticate(context.Background(), tok)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
	_, _, err = f.authn.Authenticate(context.Background(), tOther)
	assert.NoError(t, err)
}

func TestRevocationIsTerminal(t *testing.T) {
	f := newFixture(t)
	rev := NewRevoker(f.store)

	token, s, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)
	require.NoError(t, rev.Revoke(context.Background(), s.SessionID))

	// The token's own signature is still hours from expiry, yet it is
	// rejected now and on every later attempt.
	for i := 0; i < 3; i++ {
		f.advance(time.Hour)
		_, _, err := f.authn.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
}

func TestJanitorSweep(t *testing.T) {
	f := newFixture(t)
	rev := NewRevoker(f.store)
	j := NewJanitor(f.store, time.Hour)
	j.now = f.now

	_, live, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)
	_, revoked, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)
	require.NoError(t, rev.Revoke(context.Background(), revoked.SessionID))

	// Expired but still marked active: the sweep must catch it too.
	_, stale, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)
	f.advance(25 * time.Hour)
	_, fresh, err := f.iss.Issue(context.Background(), testUser, RequestMeta{})
	require.NoError(t, err)

	n, err := j.Sweep(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// Only the freshly issued session survives.
	assert.Equal(t, 1, f.store.count())
	assert.NotNil(t, f.store.get(fresh.SessionID))
	assert.Nil(t, f.store.get(live.SessionID))
	assert.Nil(t, f.store.get(stale.SessionID))
}

func TestJanitorSweepEmptyStore(t *testing.T) {
	f := newFixture(t)
	j := NewJanitor(f.store, time.Hour)
	j.now = f.now

	n, err := j.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJanitorStartStop(t *testing.T) {
	f := newFixture(t)
	j := NewJanitor(f.store, 50*time.Millisecond)

	j.Start()
	time.Sleep(120 * time.Millisecond)
	j.Stop() // must not hang or panic
}

// TestLoginUseLogoutRelogin walks the whole lifecycle the way a browser
// would: log in, browse, log out, get rejected on the stale token, log
// in again with a brand new session.
func TestLoginUseLogoutRelogin(t *testing.T) {
	f := newFixture(t)
	rev := NewRevoker(f.store)
	ctx := context.Background()

	token, s, err := f.iss.Issue(ctx, testUser, RequestMeta{UserAgent: "firefox"})
	require.NoError(t, err)

	f.advance(time.Hour)
	claims, _, err := f.authn.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.UserID)

	require.NoError(t, rev.Revoke(ctx, s.SessionID))

	_, _, err = f.authn.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	token2, s2, err := f.iss.Issue(ctx, testUser, RequestMeta{UserAgent: "firefox"})
	require.NoError(t, err)
	assert.NotEqual(t, s.SessionID, s2.SessionID)

	_, _, err = f.authn.Authenticate(ctx, token2)
	assert.NoError(t, err)

	// The old token stays dead even after the new login.
	_, _, err = f.authn.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
