package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/finance-service/internal/config"
	"github.com/spec-kit/finance-service/internal/domain"
)

const testSecret = "test_secret_key_1234567890_abcdef"

var issuedAt = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     testSecret,
		JWTIssuer:     "finance-service",
		JWTAudience:   "finance-clients",
		TokenTTLHours: 10,
	}
}

func newTestTokenManager(t *testing.T, cfg config.AuthConfig, clock clockwork.Clock) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(cfg, clock)
	require.NoError(t, err)
	return tm
}

func TestTokenManager_GenerateAndParse(t *testing.T) {
	clock := clockwork.NewFakeClockAt(issuedAt)
	tm := newTestTokenManager(t, testAuthConfig(), clock)

	tests := []struct {
		name      string
		principal domain.Principal
	}{
		{name: "plain user", principal: domain.Principal{Username: "ann@example.com", Roles: domain.Roles{domain.RoleUser}}},
		{name: "admin", principal: domain.Principal{Username: "boss@example.com", Roles: domain.Roles{domain.RoleUser, domain.RoleAdmin}}},
		{name: "invitation", principal: domain.Principal{Username: domain.InvitationUsername, Roles: domain.Roles{domain.RoleInvitation}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, exp, err := tm.GenerateToken(tt.principal)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, issuedAt.Add(10*time.Hour), exp)

			got, err := tm.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.principal, got)
		})
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClockAt(issuedAt)
	tm := newTestTokenManager(t, testAuthConfig(), clock)

	token, _, err := tm.GenerateToken(domain.Principal{Username: "ann@example.com", Roles: domain.Roles{domain.RoleUser}})
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = tm.ParseToken(token)
	assert.NoError(t, err)

	clock.Advance(10 * time.Hour)
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	clock := clockwork.NewFakeClockAt(issuedAt)
	tm := newTestTokenManager(t, testAuthConfig(), clock)
	principal := domain.Principal{Username: "ann@example.com", Roles: domain.Roles{domain.RoleUser}}

	valid, _, err := tm.GenerateToken(principal)
	require.NoError(t, err)

	otherKey := testAuthConfig()
	otherKey.JWTSecret = "another_secret_key_1234567890_xyz"
	otherIssuer := testAuthConfig()
	otherIssuer.JWTIssuer = "someone-else"
	otherAudience := testAuthConfig()
	otherAudience.JWTAudience = "other-clients"

	sign := func(cfg config.AuthConfig) string {
		token, _, err := newTestTokenManager(t, cfg, clock).GenerateToken(principal)
		require.NoError(t, err)
		return token
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "ann@example.com",
		"iss": "finance-service",
		"aud": "finance-clients",
		"exp": issuedAt.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "malformed", token: "invalid.token.here"},
		{name: "tampered", token: valid + "x"},
		{name: "wrong key", token: sign(otherKey)},
		{name: "wrong issuer", token: sign(otherIssuer)},
		{name: "wrong audience", token: sign(otherAudience)},
		{name: "alg none", token: noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.ParseToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenManager_ShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTSecret = "too-short"
	_, err := NewTokenManager(cfg, clockwork.NewRealClock())
	assert.Error(t, err)
}
