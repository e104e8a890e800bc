package middleware

import (
	authutils "idea-portal-backend/lib/utils/auth-utils"
	apimodels "idea-portal-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func AdminRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !authutils.GetRole(ctx).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("Admin access required"))
		}
		return ctx.Next()
	}
}

// OwnerOrAdminRequired сотрудник видит только свои идеи, администратор любые
func OwnerOrAdminRequired(param string) fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if authutils.GetRole(ctx).IsAdmin() {
			return ctx.Next()
		}
		if authutils.GetCorporateID(ctx) != ctx.Params(param) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("Access denied"))
		}
		return ctx.Next()
	}
}
