package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/midnightbrew/cafe-api/internal/auth"
	"github.com/midnightbrew/cafe-api/internal/model"
)

// Context keys under which the resolved identity and session are
// stored for downstream handlers.
const (
	ClaimsKey  = "auth_claims"
	SessionKey = "auth_session"
)

// TokenCookie is the cookie the login handler sets and the extractor
// falls back to when no Authorization header is present.
const TokenCookie = "token"

// extractToken returns the bearer credential for this request: the
// Authorization header wins, then the token cookie.  Empty string means
// no credential was presented.
func extractToken(c echo.Context) string {
	h := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); raw != "" {
			return raw
		}
	}
	if ck, err := c.Cookie(TokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	return ""
}

// RequireAuth returns middleware that hard-gates a route on a valid
// token and live session.  All expected auth failures collapse into one
// 401 body so a caller cannot probe whether a session exists; storage
// faults surface as 500 and are never treated as "unauthenticated".
// On success the resolved claims and the refreshed session are stored
// in the request context.
func RequireAuth(a *auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			claims, session, err := a.Authenticate(c.Request().Context(), raw)
			if err != nil {
				if auth.IsAuthFailure(err) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication unavailable"})
			}
			c.Set(ClaimsKey, claims)
			c.Set(SessionKey, session)
			return next(c)
		}
	}
}

// OptionalAuth resolves identity when a valid token and session are
// present but never rejects: missing, invalid or revoked credentials
// all leave the request anonymous.  Pages that render differently for
// logged-in users sit behind this.
func OptionalAuth(a *auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c)
			if raw == "" {
				return next(c)
			}
			claims, session, err := a.Authenticate(c.Request().Context(), raw)
			if err != nil {
				return next(c)
			}
			c.Set(ClaimsKey, claims)
			c.Set(SessionKey, session)
			return next(c)
		}
	}
}

// ClaimsFrom returns the authenticated identity stored by RequireAuth
// or OptionalAuth, or nil for anonymous requests.
func ClaimsFrom(c echo.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey).(*auth.Claims); ok {
		return v
	}
	return nil
}

// SessionFrom returns the live session stored by the auth middleware,
// or nil for anonymous requests.
func SessionFrom(c echo.Context) *model.Session {
	if v, ok := c.Get(SessionKey).(*model.Session); ok {
		return v
	}
	return nil
}
