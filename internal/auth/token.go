package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/spec-kit/finance-service/internal/config"
	"github.com/spec-kit/finance-service/internal/domain"
)

// ErrInvalidToken is returned for every verification failure.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	clock    clockwork.Clock
	parser   *jwt.Parser
}

// NewTokenManager builds a new manager. The secret must be at least config.MinJWTSecretBytes long.
func NewTokenManager(cfg config.AuthConfig, clock clockwork.Clock) (*TokenManager, error) {
	if len(cfg.JWTSecret) < config.MinJWTSecretBytes {
		return nil, fmt.Errorf("jwt secret shorter than %d bytes", config.MinJWTSecretBytes)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ttl := cfg.TokenTTL()
	if ttl <= 0 {
		ttl = 10 * time.Hour
	}
	tm := &TokenManager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      ttl,
		clock:    clock,
	}
	tm.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.JWTIssuer),
		jwt.WithAudience(cfg.JWTAudience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(clock.Now),
	)
	return tm, nil
}

// Claims describes JWT payload.
type Claims struct {
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT for the principal.
func (tm *TokenManager) GenerateToken(principal domain.Principal) (string, time.Time, error) {
	now := tm.clock.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Authorities: principal.Roles.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			Subject:   principal.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the token and returns the principal it describes.
// Any failure yields ErrInvalidToken so callers cannot tell which check failed.
func (tm *TokenManager) ParseToken(tokenStr string) (domain.Principal, error) {
	claims := &Claims{}
	parsed, err := tm.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return domain.Principal{}, ErrInvalidToken
	}
	return domain.Principal{
		Username: claims.Subject,
		Roles:    domain.RolesFromStrings(claims.Authorities),
	}, nil
}
