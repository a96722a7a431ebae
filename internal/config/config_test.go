package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 10*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, time.Hour, cfg.Registration.DeleteAfter())
	assert.Equal(t, 5*time.Minute, cfg.Registration.SweepInterval())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Empty(t, cfg.SMTP.Host)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("APP_BASE_URL", "https://money.example.com/")
	t.Setenv("REGISTRATION_DELETE_AFTER_MINUTES", "15")
	t.Setenv("REGISTRATION_ADMIN_EMAILS", "boss@example.com, Ops@Example.com ,")
	t.Setenv("LOG_DEV", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://money.example.com", cfg.App.BaseURL)
	assert.Equal(t, 15*time.Minute, cfg.Registration.DeleteAfter())
	assert.Equal(t, []string{"boss@example.com", "Ops@Example.com"}, cfg.Registration.AdminEmails)
	assert.True(t, cfg.Registration.IsAdminEmail("ops@example.com"))
	assert.False(t, cfg.Registration.IsAdminEmail("someone@example.com"))
	assert.True(t, cfg.Logger.Dev)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth: AuthConfig{
				JWTSecret:     testSecret,
				JWTIssuer:     "iss",
				JWTAudience:   "aud",
				TokenTTLHours: 10,
				BcryptCost:    10,
			},
			Registration: RegistrationConfig{DeleteAfterMinutes: 60, SweepIntervalSeconds: 300},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "short secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = strings.Repeat("x", MinJWTSecretBytes-1) },
			wantErr: "AUTH_JWT_SECRET",
		},
		{
			name:   "secret at minimum length",
			mutate: func(c *Config) { c.Auth.JWTSecret = strings.Repeat("x", MinJWTSecretBytes) },
		},
		{
			name:    "window below ten minutes",
			mutate:  func(c *Config) { c.Registration.DeleteAfterMinutes = 9 },
			wantErr: "REGISTRATION_DELETE_AFTER_MINUTES",
		},
		{
			name:    "window above one day",
			mutate:  func(c *Config) { c.Registration.DeleteAfterMinutes = 24*60 + 1 },
			wantErr: "REGISTRATION_DELETE_AFTER_MINUTES",
		},
		{
			name:    "bcrypt cost out of range",
			mutate:  func(c *Config) { c.Auth.BcryptCost = 3 },
			wantErr: "AUTH_BCRYPT_COST",
		},
		{
			name:    "missing audience",
			mutate:  func(c *Config) { c.Auth.JWTAudience = "" },
			wantErr: "AUTH_JWT_AUDIENCE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
