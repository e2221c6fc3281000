package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnightbrew/cafe-api/internal/auth"
	"github.com/midnightbrew/cafe-api/internal/model"
)

const testSecret = "middleware-test-secret"

// stubStore serves a single session and can be forced to fail, which is
// all these middleware tests need.
type stubStore struct {
	session *model.Session
	fail    error
}

func (s *stubStore) Create(context.Context, *model.Session) error { return nil }

func (s *stubStore) GetActive(_ context.Context, sessionID string, userID uint64) (*model.Session, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	if s.session == nil || s.session.SessionID != sessionID ||
		s.session.UserID != userID || !s.session.IsActive {
		return nil, auth.ErrSessionNotFound
	}
	cp := *s.session
	return &cp, nil
}

func (s *stubStore) Update(_ context.Context, sess *model.Session) error {
	if s.fail != nil {
		return s.fail
	}
	cp := *sess
	s.session = &cp
	return nil
}

func (s *stubStore) Deactivate(_ context.Context, sessionID string) error {
	if s.session != nil && s.session.SessionID == sessionID {
		s.session.IsActive = false
	}
	return nil
}

func (s *stubStore) DeactivateAllForUser(context.Context, uint64) error { return nil }
func (s *stubStore) DeactivateAll(context.Context) error                { return nil }
func (s *stubStore) DeleteDead(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func signTestToken(t *testing.T, userID uint64, sessionID string) string {
	t.Helper()
	now := time.Now().UTC()
	raw, err := auth.SignToken(testSecret, &auth.Claims{
		UserID:    userID,
		Email:     "guest@example.com",
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	require.NoError(t, err)
	return raw
}

func liveSession(userID uint64, sessionID string) *model.Session {
	now := time.Now().UTC()
	return &model.Session{
		SessionID:    sessionID,
		UserID:       userID,
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(24 * time.Hour),
	}
}

// okHandler records whether it ran and what identity it saw.
func okHandler(sawClaims **auth.Claims) echo.HandlerFunc {
	return func(c echo.Context) error {
		*sawClaims = ClaimsFrom(c)
		return c.String(http.StatusOK, "ok")
	}
}

func doRequest(mw echo.MiddlewareFunc, h echo.HandlerFunc, decorate func(*http.Request)) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = mw(h)(c)
	return rec
}

func TestRequireAuthHappyPath(t *testing.T) {
	store := &stubStore{session: liveSession(7, "sid-1")}
	a := auth.NewAuthenticator(store, testSecret, 24*time.Hour)
	token := signTestToken(t, 7, "sid-1")

	var claims *auth.Claims
	rec := doRequest(RequireAuth(a), okHandler(&claims), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, uint64(7), claims.UserID)
}

func TestRequireAuthCookieFallback(t *testing.T) {
	store := &stubStore{session: liveSession(7, "sid-1")}
	a := auth.NewAuthenticator(store, testSecret, 24*time.Hour)
	token := signTestToken(t, 7, "sid-1")

	var claims *auth.Claims
	rec := doRequest(RequireAuth(a), okHandler(&claims), func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, claims)
}

func TestRequireAuthHeaderWinsOverCookie(t *testing.T) {
	store := &stubStore{session: liveSession(7, "sid-1")}
	a := auth.NewAuthenticator(store, testSecret, 24*time.Hour)
	good := signTestToken(t, 7, "sid-1")

	// Valid header, garbage cookie: request succeeds because the header
	// is consulted first.
	var claims *auth.Claims
	rec := doRequest(RequireAuth(a), okHandler(&claims), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+good)
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "garbage"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Garbage header, valid cookie: rejected, the cookie is not a
	// fallback once a bearer header is present.
	rec = doRequest(RequireAuth(a), okHandler(&claims), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: good})
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthUniform401(t *testing.T) {
	// Missing token, invalid token and revoked session must be
	// indistinguishable to the caller.
	store := &stubStore{session: liveSession(7, "sid-1")}
	a := auth.NewAuthenticator(store, testSecret, 24*time.Hour)
	revokedToken := signTestToken(t, 7, "sid-revoked")

	cases := map[string]func(*http.Request){
		"no credential": nil,
		"invalid token": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not.a.token")
		},
		"unknown session": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+revokedToken)
		},
	}

	var claims *auth.Claims
	var bodies []string
	for name, decorate := range cases {
		rec := doRequest(RequireAuth(a), okHandler(&claims), decorate)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		bodies = append(bodies, rec.Body.String())
	}
	for _, b := range bodies[1:] {
		assert.JSONEq(t, bodies[0], b)
	}
}

func TestRequireAuthStorageFaultIs500(t *testing.T) {
	store := &stubStore{fail: errors.New("db down")}
	a := auth.NewAuthenticator(store, testSecret, 24*time.Hour)
	token := signTestToken(t, 7, "sid-1")

	var claims *auth.Claims
	rec := doRequest(RequireAuth(a), okHandler(&claims), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, claims)
}

func TestOptionalAuthAnonymous(t *testing.T) {
	store := &stubStore{}
	a := auth.NewAuthenticator(store, testSecret, 24*time.Hour)

	cases := map[string]func(*http.Request){
		"no credential": nil,
		"invalid token": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer junk")
		},
		"revoked session": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signTestToken(t, 7, "gone"))
		},
	}

	for name, decorate := range cases {
		var claims *auth.Claims
		rec := doRequest(OptionalAuth(a), okHandler(&claims), decorate)
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.Nil(t, claims, name)
	}
}

func TestOptionalAuthResolvesIdentity(t *testing.T) {
	store := &stubStore{session: liveSession(7, "sid-1")}
	a := auth.NewAuthenticator(store, testSecret, 24*time.Hour)
	token := signTestToken(t, 7, "sid-1")

	var claims *auth.Claims
	rec := doRequest(OptionalAuth(a), okHandler(&claims), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, uint64(7), claims.UserID)
}
