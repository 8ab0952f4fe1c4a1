package middleware

import (
	"github.com/gofiber/fiber/v2"

	"docflow-backend/lib/rbac"
	"docflow-backend/models"
)

// RequirePermission проверяет полномочие роли по таблице полномочий
func RequirePermission(module models.Module, permission models.Permission) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		if userID == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "RBAC_FORBIDDEN",
			})
		}
		userRole := GetActorRole(ctx)
		if userRole == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "RBAC_FORBIDDEN",
			})
		}
		if !rbac.Instance.HasPermission(userRole, module, permission) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "RBAC_FORBIDDEN",
			})
		}
		return ctx.Next()
	}
}
