package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

// RequirePermission ensures the session role grants permission.
func RequirePermission(sessions SessionView, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !sessions.HasPermission(permission) {
			return apperrors.NewForbidden("missing permission " + permission)
		}
		return c.Next()
	}
}

// RequireAnyPermission passes when at least one permission is granted.
func RequireAnyPermission(sessions SessionView, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, permission := range permissions {
			if sessions.HasPermission(permission) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient permissions")
	}
}
