package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/medtrack-api/internal/application/dto"
)

// moduleChecker is the minimal contract the middleware needs to verify a
// module subscription. Satisfied by repository.OrganizationRepository.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, organizationID, module string) (bool, error)
}

// RequireModule returns a middleware that verifies the caller's organization
// has the module active and unexpired. Mount after AuthMiddleware.
//
// Responses:
//   - 403 Forbidden            → module not enabled or expired.
//   - 503 Service Unavailable  → infrastructure failure during the check.
func RequireModule(module string, checker moduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID := GetOrganizationID(c)
		if orgID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "organization_id not found in token",
			})
		}

		active, err := checker.HasActiveModule(c.Context(), orgID, module)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "could not verify module subscription, try again later",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "module '" + module + "' is not active for this organization",
			})
		}
		return c.Next()
	}
}
