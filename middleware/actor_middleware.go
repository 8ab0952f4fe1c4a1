package middleware

import (
	"github.com/gofiber/fiber/v2"

	authutils "docflow-backend/lib/utils/auth-utils"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetActorRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func GetActorDepartment(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if department, exist := claims["department"]; exist {
		if stringDepartment, ok := department.(string); ok {
			return stringDepartment
		}
	}
	return ""
}

// GetActor собирает идентичность пользователя из JWT claims
func GetActor(ctx *fiber.Ctx) models.Actor {
	return models.Actor{
		ID:         GetUserID(ctx),
		Role:       GetActorRole(ctx),
		Department: GetActorDepartment(ctx),
	}
}

func AdminRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetActorRole(ctx).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
