package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/midnightbrew/cafe-api/internal/auth"
	"github.com/midnightbrew/cafe-api/internal/config"
	"github.com/midnightbrew/cafe-api/internal/middleware"
	"github.com/midnightbrew/cafe-api/internal/model"
	"github.com/midnightbrew/cafe-api/internal/repository"
	"github.com/midnightbrew/cafe-api/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.  Credential
// checks (password hashing and comparison) happen here; the issuer is
// only ever called with an already-authenticated user.
type AuthHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	Issuer  *auth.Issuer
	Revoker *auth.Revoker
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, issuer *auth.Issuer, revoker *auth.Revoker) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Issuer: issuer, Revoker: revoker}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type userPart struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}
type authResp struct {
	User  userPart `json:"user"`
	Token string   `json:"token"`
}

// setTokenCookie hands the token to browsers as an HTTP-only cookie in
// addition to the JSON body, so page navigations authenticate without
// script involvement.
func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.Issuer.TokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearTokenCookie expires the token cookie.  Called on every logout
// path, including failed ones, so the client never keeps a token it
// believes is valid.
func (h *AuthHandler) clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func requestMeta(c echo.Context) auth.RequestMeta {
	return auth.RequestMeta{
		UserAgent: c.Request().UserAgent(),
		IPAddress: c.RealIP(),
	}
}

// Register creates a user account and logs it in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first/last name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.FirstName, req.LastName, req.Phone, model.RoleUser, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	u := &model.User{ID: uid, Email: req.Email, FirstName: req.FirstName, LastName: req.LastName, Role: model.RoleUser}
	token, _, err := h.Issuer.Issue(ctx, u, requestMeta(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusCreated, authResp{
		User:  userPart{ID: uid, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role},
		Token: token,
	})
}

// Login verifies credentials and issues a fresh session.  Every login
// creates a new session row; other devices stay logged in.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, _, err := h.Issuer.Issue(ctx, u, requestMeta(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusOK, authResp{
		User:  userPart{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role},
		Token: token,
	})
}

// Logout revokes the current session (single device).  The cookie is
// cleared even when server-side revocation fails: leaving the client
// with a token it believes is valid is worse than a stale row the
// janitor will sweep anyway.
func (h *AuthHandler) Logout(c echo.Context) error {
	s := middleware.SessionFrom(c)

	if s != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Revoker.Revoke(ctx, s.SessionID); err != nil {
			log.Printf("logout: revoke failed for session %s: %v", s.SessionID, err)
		}
	}
	// Clear before writing: headers are committed with the status.
	h.clearTokenCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every session of the current user (logout
// everywhere), for forced password resets or a suspected compromise.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)

	if claims != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Revoker.RevokeAllForUser(ctx, claims.UserID); err != nil {
			log.Printf("logout-all: revoke failed for user %d: %v", claims.UserID, err)
			h.clearTokenCookie(c)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}
	h.clearTokenCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// mePart carries the identity fields present in the token.  Role is
// deliberately absent: it lives on the user row, not in claims, and
// /me answers from the token alone.
type mePart struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Me returns the identity and session behind the current request.
func (h *AuthHandler) Me(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	s := middleware.SessionFrom(c)
	if claims == nil || s == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": mePart{ID: claims.UserID, Email: claims.Email, FirstName: claims.FirstName, LastName: claims.LastName},
		"session": echo.Map{
			"session_id":    s.SessionID,
			"created_at":    s.CreatedAt,
			"last_activity": s.LastActivity,
			"expires_at":    s.ExpiresAt,
		},
	})
}
