package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// RequireEditor ensures the caller holds editor access.
func RequireEditor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.CanEdit() {
			return apperrors.NewForbidden("editor access required")
		}
		return c.Next()
	}
}

// RequireAny ensures the caller is authenticated.
func RequireAny() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
