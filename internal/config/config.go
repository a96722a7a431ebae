package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MinJWTSecretBytes is the shortest accepted signing key.
	MinJWTSecretBytes = 31

	minDeleteAfter = 10 * time.Minute
	maxDeleteAfter = 24 * time.Hour
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Registration RegistrationConfig
	SMTP         SMTPConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	BaseURL               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	Dev   bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	TokenTTLHours      int
	BcryptCost         int
	LoginRatePerSecond float64
	LoginBurst         int
}

// RegistrationConfig controls the sign-up lifecycle.
type RegistrationConfig struct {
	DeleteAfterMinutes   int
	SweepIntervalSeconds int
	AdminEmails          []string
}

// SMTPConfig holds mail relay settings. An empty Host selects the log-only sender.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "finance-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			BaseURL:               strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:8080"), "/"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Dev:   os.Getenv("LOG_DEV") == "1",
		},
		Auth: AuthConfig{
			JWTSecret:          os.Getenv("AUTH_JWT_SECRET"),
			JWTIssuer:          getEnv("AUTH_JWT_ISSUER", "finance-service"),
			JWTAudience:        getEnv("AUTH_JWT_AUDIENCE", "finance-clients"),
			TokenTTLHours:      getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 10),
			BcryptCost:         getEnvAsInt("AUTH_BCRYPT_COST", 12),
			LoginRatePerSecond: getEnvAsFloat("AUTH_LOGIN_RATE_PER_SECOND", 5),
			LoginBurst:         getEnvAsInt("AUTH_LOGIN_BURST", 10),
		},
		Registration: RegistrationConfig{
			DeleteAfterMinutes:   getEnvAsInt("REGISTRATION_DELETE_AFTER_MINUTES", 60),
			SweepIntervalSeconds: getEnvAsInt("REGISTRATION_SWEEP_INTERVAL_SECONDS", 300),
			AdminEmails:          getEnvAsList("REGISTRATION_ADMIN_EMAILS"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "noreply@example.com"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that must hold before the service starts.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < MinJWTSecretBytes {
		errs = append(errs, fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", MinJWTSecretBytes))
	}
	if c.Auth.JWTIssuer == "" || c.Auth.JWTAudience == "" {
		errs = append(errs, errors.New("AUTH_JWT_ISSUER and AUTH_JWT_AUDIENCE are required"))
	}
	if c.Auth.TokenTTLHours <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL_HOURS must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, errors.New("AUTH_BCRYPT_COST must be between 4 and 31"))
	}
	if d := c.Registration.DeleteAfter(); d < minDeleteAfter || d > maxDeleteAfter {
		errs = append(errs, fmt.Errorf("REGISTRATION_DELETE_AFTER_MINUTES must be between %d and %d",
			int(minDeleteAfter.Minutes()), int(maxDeleteAfter.Minutes())))
	}
	if c.Registration.SweepIntervalSeconds <= 0 {
		errs = append(errs, errors.New("REGISTRATION_SWEEP_INTERVAL_SECONDS must be positive"))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the bearer token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// DeleteAfter returns how long a pending registration survives.
func (r RegistrationConfig) DeleteAfter() time.Duration {
	return time.Duration(r.DeleteAfterMinutes) * time.Minute
}

// SweepInterval returns the delay between two sweeps.
func (r RegistrationConfig) SweepInterval() time.Duration {
	return time.Duration(r.SweepIntervalSeconds) * time.Second
}

// IsAdminEmail reports whether username is listed for admin bootstrap.
func (r RegistrationConfig) IsAdminEmail(username string) bool {
	for _, email := range r.AdminEmails {
		if strings.EqualFold(email, username) {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
