package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The signing secret is required: the
// process refuses to start without it, because a missing secret is a
// fatal misconfiguration rather than something to discover per request.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to sign tokens (required)
	SessionTTLHours int    // session time-to-live in hours (sliding)
	TokenTTLHours   int    // token signature expiry in hours
	BcryptCost      int    // bcrypt cost for password hashing
	ResetOnBoot     bool   // revoke every session at startup, forcing re-login
	SweepIntervalMin int   // minutes between janitor sweeps
	AdminEmail      string // seed admin account email (optional)
	AdminPassword   string // seed admin account password (optional)
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// Session and token TTLs default to 24 hours each; they are configured
// independently but should normally be kept equal.
func Load() Config {
	return Config{
		Env:              getenv("APP_ENV", "dev"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"),
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		SessionTTLHours:  atoiDefault(os.Getenv("SESSION_TTL_HOURS"), 24),
		TokenTTLHours:    atoiDefault(os.Getenv("JWT_EXPIRES_HOURS"), 24),
		BcryptCost:       atoiDefault(os.Getenv("BCRYPT_COST"), 10),
		ResetOnBoot:      getenv("SESSIONS_RESET_ON_BOOT", "false") == "true",
		SweepIntervalMin: atoiDefault(os.Getenv("SESSION_SWEEP_INTERVAL_MIN"), 60),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// atoiDefault converts s to an integer, falling back to def when s is
// empty or not a valid positive number.
func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Printf("config: ignoring invalid value %q, using %d", s, def)
		return def
	}
	return n
}
