package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails structural,
// signature or expiry checks.  The specific cause is deliberately not
// exposed.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload signed into every issued token.  It carries the
// user's identity for display purposes and the session identifier that
// ties the token to its server-side session record.  The token alone is
// never sufficient: a structurally valid, unexpired token whose session
// has been revoked must still be rejected.
type Claims struct {
	UserID    uint64 `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// SignToken signs claims with HS256 using the shared secret.
func SignToken(secret string, claims *Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the embedded
// claims.  Any failure collapses to ErrInvalidToken.
func ParseToken(secret, raw string) (*Claims, error) {
	return parseTokenAt(secret, raw, time.Now)
}

// parseTokenAt validates against the given clock so the authenticator
// judges token expiry with the same clock it uses for session expiry.
func parseTokenAt(secret, raw string, now func() time.Time) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// newClaims builds the claim set for a freshly issued session.
func newClaims(userID uint64, email, firstName, lastName, sessionID string, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		UserID:    userID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}
