package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, kv := range [][2]string{
		{"APP_PORT", "8080"},
		{"DB_USER", "cafe"},
		{"DB_HOST", "localhost"},
		{"DB_PORT", "3306"},
		{"DB_NAME", "cafe"},
		{"JWT_SECRET", "s3cret"},
	} {
		t.Setenv(kv[0], kv[1])
	}

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 24, cfg.SessionTTLHours)
	assert.Equal(t, 24, cfg.TokenTTLHours)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 60, cfg.SweepIntervalMin)
	assert.False(t, cfg.ResetOnBoot)
	assert.Empty(t, cfg.AdminEmail)
}

func TestLoadOverrides(t *testing.T) {
	for _, kv := range [][2]string{
		{"APP_PORT", "8080"},
		{"DB_USER", "cafe"},
		{"DB_HOST", "localhost"},
		{"DB_PORT", "3306"},
		{"DB_NAME", "cafe"},
		{"JWT_SECRET", "s3cret"},
		{"SESSION_TTL_HOURS", "48"},
		{"SESSIONS_RESET_ON_BOOT", "true"},
		{"SESSION_SWEEP_INTERVAL_MIN", "15"},
	} {
		t.Setenv(kv[0], kv[1])
	}

	cfg := Load()
	assert.Equal(t, 48, cfg.SessionTTLHours)
	assert.Equal(t, 15, cfg.SweepIntervalMin)
	assert.True(t, cfg.ResetOnBoot)
}

func TestAtoiDefault(t *testing.T) {
	assert.Equal(t, 24, atoiDefault("", 24))
	assert.Equal(t, 24, atoiDefault("junk", 24))
	assert.Equal(t, 24, atoiDefault("-5", 24))
	assert.Equal(t, 12, atoiDefault("12", 24))
}
