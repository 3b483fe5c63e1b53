package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-service/internal/domain"
)

// RequireRole ensures the principal has one of the allowed roles. With no
// arguments any authenticated caller passes.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireStaff ensures the caller holds an asset-managing role.
func RequireStaff() fiber.Handler {
	return RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleTechnician)
}

// RequireCronToken guards the /jobs endpoints invoked by external cron.
// Callers pass the shared token in the X-Cron-Token header; no principal
// is loaded for these routes.
func RequireCronToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return fiber.NewError(http.StatusForbidden, "cron endpoints disabled")
		}
		provided := c.Get("X-Cron-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return fiber.NewError(http.StatusForbidden, "invalid cron token")
		}
		return c.Next()
	}
}
