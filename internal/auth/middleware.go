package auth

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finance-service/internal/domain"
	apperrors "github.com/spec-kit/finance-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and stores the principal from its claims.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	scheme, value, ok := authorizationHeader(c)
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return apperrors.NewUnauthorized("bearer token required")
	}

	principal, err := m.tokens.ParseToken(value)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}

// BasicCredentials extracts username and password from a Basic authorization header.
func BasicCredentials(c *fiber.Ctx) (string, string, error) {
	scheme, value, ok := authorizationHeader(c)
	if !ok || !strings.EqualFold(scheme, "Basic") {
		return "", "", apperrors.NewUnauthorized("basic credentials required")
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", apperrors.NewUnauthorized("malformed basic credentials")
	}
	username, password, found := strings.Cut(string(decoded), ":")
	if !found || username == "" {
		return "", "", apperrors.NewUnauthorized("malformed basic credentials")
	}
	return username, password, nil
}

func authorizationHeader(c *fiber.Ctx) (string, string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return "", "", false
	}
	return parts[0], strings.TrimSpace(parts[1]), true
}
