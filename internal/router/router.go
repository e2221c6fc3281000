// Package router registers the HTTP routes for the café API and
// applies the authentication, caching and rate-limit middleware each
// group needs.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/midnightbrew/cafe-api/internal/auth"
	"github.com/midnightbrew/cafe-api/internal/config"
	"github.com/midnightbrew/cafe-api/internal/handler"
	"github.com/midnightbrew/cafe-api/internal/middleware"
)

// Deps carries everything the routes need.  The router stays free of
// construction logic; main builds the pieces and hands them over.
type Deps struct {
	Auth          *handler.AuthHandler
	Public        *handler.PublicHandler
	Booking       *handler.BookingHandler
	Admin         *handler.AdminHandler
	Authenticator *auth.Authenticator
	Users         auth.UserStore
	Redis         *redis.Client
	CacheCfg      config.CacheConfig
	RateCfg       config.RateLimitConfig
}

// Register wires all routes onto the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	e.GET("/healthz", handler.Health)

	// Auth endpoints.  Login and register sit behind the per-IP rate
	// limiter; logout paths need the caller's session resolved first.
	authGroup := e.Group("/api/auth")
	authGroup.Use(middleware.AuthRateLimit(d.RateCfg, d.Redis))
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/logout", d.Auth.Logout, middleware.OptionalAuth(d.Authenticator))
	authGroup.POST("/logout-all", d.Auth.LogoutAll, middleware.RequireAuth(d.Authenticator))
	authGroup.GET("/me", d.Auth.Me, middleware.RequireAuth(d.Authenticator))

	// Public browse endpoints, cached.  OptionalAuth so pages can
	// render a logged-in header without gating the content.
	pub := e.Group("/api")
	pub.Use(middleware.OptionalAuth(d.Authenticator))
	pub.GET("/menu", d.Public.GetMenu, middleware.MenuCache(d.CacheCfg, d.Redis))
	pub.GET("/menu/:category", d.Public.GetMenuByCategory, middleware.MenuCache(d.CacheCfg, d.Redis))
	pub.GET("/categories", d.Public.GetCategories, middleware.MenuCache(d.CacheCfg, d.Redis))
	pub.GET("/featured", d.Public.GetFeatured, middleware.MenuCache(d.CacheCfg, d.Redis))
	pub.GET("/booking/timeslots", d.Booking.Timeslots)

	// Booking endpoints require a logged-in user.
	booked := e.Group("/api/booking")
	booked.Use(middleware.RequireAuth(d.Authenticator))
	booked.POST("", d.Booking.Create)
	booked.GET("", d.Booking.List)
	booked.DELETE("/:id", d.Booking.Cancel)

	// Admin dashboard API: authenticated and role-gated.
	admin := e.Group("/api/admin")
	admin.Use(middleware.RequireAuth(d.Authenticator))
	admin.Use(middleware.RequireAdmin(d.Users))
	admin.POST("/categories", d.Admin.CreateCategory)
	admin.GET("/categories", d.Admin.ListCategories)
	admin.PUT("/categories/:id", d.Admin.UpdateCategory)
	admin.DELETE("/categories/:id", d.Admin.DeleteCategory)
	admin.POST("/menu", d.Admin.CreateMenuItem)
	admin.GET("/menu", d.Admin.ListMenuItems)
	admin.PUT("/menu/:id", d.Admin.UpdateMenuItem)
	admin.DELETE("/menu/:id", d.Admin.DeleteMenuItem)
	admin.GET("/bookings", d.Admin.ListBookings)
	admin.PUT("/bookings/:id/status", d.Admin.UpdateBookingStatus)
	admin.GET("/users", d.Admin.ListUsers)
	admin.PUT("/users/:id/role", d.Admin.UpdateUserRole)
	admin.POST("/images", d.Admin.CreateImage)
	admin.GET("/images", d.Admin.ListImages)
	admin.PUT("/images/:id", d.Admin.UpdateImage)
	admin.DELETE("/images/:id", d.Admin.DeleteImage)
}
