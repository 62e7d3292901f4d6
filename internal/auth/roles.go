package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/handypro/internal/domain"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

// RequireTechnician ensures a technician is authenticated.
func RequireTechnician() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Technician == nil {
			return apperrors.NewForbidden("technician required")
		}
		return c.Next()
	}
}

// RequireUserRole ensures the back-office principal has one of the allowed roles.
func RequireUserRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeUser || principal.User == nil {
			return apperrors.NewForbidden("back-office role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated (user or technician).
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
