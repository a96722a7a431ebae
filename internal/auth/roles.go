package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finance-service/internal/domain"
	apperrors "github.com/spec-kit/finance-service/pkg/util/errorutil"
)

// RequireRole ensures the principal carries at least one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowed) > 0 && !principal.HasAny(allowed...) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present, whatever its roles.
func RequireAuthenticated() fiber.Handler {
	return RequireRole()
}
