package middleware

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/models"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/logger"
	"inspection-api/pkg/utils"
)

// Protected validates the bearer token and reloads the user on every request
func Protected(authService services.AuthService) fiber.Handler {
	return authenticate(authService, false)
}

// ProtectedWithQueryToken also accepts ?token=, for websocket upgrades where no header can be sent
func ProtectedWithQueryToken(authService services.AuthService) fiber.Handler {
	return authenticate(authService, true)
}

func authenticate(authService services.AuthService, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var token string

		authHeader := c.Get("Authorization")
		if authHeader != "" {
			token = utils.ExtractTokenFromHeader(authHeader)
			if token == "" {
				return utils.UnauthorizedResponse(c, "Invalid authorization header format")
			}
		}
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		user, err := authService.Authenticate(c.UserContext(), token)
		if err != nil {
			logger.Debug(logger.CategoryAuth, "token_rejected", "Token validation failed", map[string]interface{}{
				"path":  c.Path(),
				"error": err.Error(),
			})
			return utils.AppErrorResponse(c, err)
		}

		c.Locals("user", &utils.UserContext{
			ID:             user.UserID,
			Email:          user.Email,
			Name:           user.Name,
			Role:           string(user.UserType),
			ApprovalStatus: string(user.ApprovalStatus),
			IsActive:       user.IsActive,
		})
		return c.Next()
	}
}

// RequireApproved lets through only approved, active users
func RequireApproved() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}
		if !user.IsApproved() {
			return utils.ForbiddenResponse(c, "Account is awaiting approval")
		}
		return c.Next()
	}
}

// RequireRole middleware checks if user has one of the roles
func RequireRole(roles ...models.UserType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}
		for _, role := range roles {
			if user.Role == string(role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Insufficient permissions",
			"error":   "Access denied",
		})
	}
}

// AdminOnly requires an approved admin
func AdminOnly() fiber.Handler {
	approved := RequireApproved()
	admin := RequireRole(models.UserTypeAdmin)
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}
		if !user.IsApproved() {
			return approved(c)
		}
		return admin(c)
	}
}

// RequesterFrom converts the authenticated caller into a service requester
func RequesterFrom(c *fiber.Ctx) (services.Requester, error) {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return services.Requester{}, apperrors.New(apperrors.CodeUnauthorized, "user not authenticated")
	}
	return services.Requester{UserID: user.ID, Role: models.UserType(user.Role)}, nil
}
