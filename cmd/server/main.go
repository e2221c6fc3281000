package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/midnightbrew/cafe-api/internal/auth"
	"github.com/midnightbrew/cafe-api/internal/config"
	"github.com/midnightbrew/cafe-api/internal/database"
	"github.com/midnightbrew/cafe-api/internal/handler"
	"github.com/midnightbrew/cafe-api/internal/model"
	"github.com/midnightbrew/cafe-api/internal/queue"
	"github.com/midnightbrew/cafe-api/internal/repository"
	"github.com/midnightbrew/cafe-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: caching and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	categories := repository.NewCategoryRepo(db)
	menu := repository.NewMenuItemRepo(db)
	bookings := repository.NewBookingRepo(db)
	images := repository.NewImageRepo(db)

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	issuer := auth.NewIssuer(sessions, cfg.JWTSecret, sessionTTL, tokenTTL)
	authenticator := auth.NewAuthenticator(sessions, cfg.JWTSecret, sessionTTL)
	revoker := auth.NewRevoker(sessions)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer bootCancel()

	// Optional policy: force every client to log in again after a
	// restart.  Distinct from the janitor, which only reclaims storage.
	if cfg.ResetOnBoot {
		if err := revoker.RevokeAll(bootCtx); err != nil {
			log.Printf("startup: session reset failed: %v", err)
		} else {
			log.Printf("startup: all sessions revoked, clients must log in again")
		}
	}

	if err := seedAdmin(bootCtx, cfg, users); err != nil {
		log.Printf("startup: admin seeding failed: %v", err)
	}

	janitor := auth.NewJanitor(sessions, time.Duration(cfg.SweepIntervalMin)*time.Minute)
	janitor.Start()
	defer janitor.Stop()

	go queue.StartBookingConsumer()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Auth:          handler.NewAuthHandler(cfg, users, issuer, revoker),
		Public:        handler.NewPublicHandler(categories, menu),
		Booking:       handler.NewBookingHandler(bookings),
		Admin:         handler.NewAdminHandler(users, categories, menu, bookings, images),
		Authenticator: authenticator,
		Users:         users,
		Redis:         rdb,
		CacheCfg:      config.LoadCacheConfig(),
		RateCfg:       config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates or promotes the admin account named by ADMIN_EMAIL
// and ADMIN_PASSWORD.  With the variables unset the hook is skipped, so
// production can manage roles through the dashboard instead.
func seedAdmin(ctx context.Context, cfg config.Config, users *repository.UserRepo) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	u, err := users.GetByEmail(ctx, cfg.AdminEmail)
	switch {
	case err == nil:
		if u.Role == model.RoleAdmin {
			return nil
		}
		log.Printf("startup: promoting %s to admin", cfg.AdminEmail)
		return users.UpdateRole(ctx, u.ID, model.RoleAdmin)
	case errors.Is(err, repository.ErrNotFound):
		log.Printf("startup: creating admin account %s", cfg.AdminEmail)
		_, cerr := users.Create(ctx, cfg.AdminEmail, cfg.AdminPassword, "Admin", "User", "", model.RoleAdmin, cfg.BcryptCost)
		return cerr
	default:
		return err
	}
}
