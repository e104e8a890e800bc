package apiv1

import (
	"idea-portal-backend/controllers"
	"idea-portal-backend/lib/credentials"
	apimodels "idea-portal-backend/models/api"
	credentialsapimodels "idea-portal-backend/models/api/credentials"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type credentialsApiController struct {
	controllers.BaseAPIController
}

// InitCredentialsApiRouters роутер должен быть закрыт авторизацией
func InitCredentialsApiRouters(app fiber.Router) {
	controller := credentialsApiController{}
	app.Post("users/details", controller.userDetails)
	app.Get("admins/:corporateId/role", controller.adminRole)
}

// @Summary Данные сотрудника
// @Tags Учётные записи
// @Description Имя, функция и локация сотрудника для формы подачи идеи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		credentialsapimodels.UserDetailsRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=credentialsapimodels.UserDetails}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/details [post]
func (c *credentialsApiController) userDetails(ctx *fiber.Ctx) error {
	var payload credentialsapimodels.UserDetailsRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := credentials.Instance.UserDetails(strings.TrimSpace(payload.CorporateID))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to fetch user details")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Роль администратора
// @Tags Учётные записи
// @Description Роль в короткой форме: L1 или L2
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   corporateId			path		string	true	"Corporate ID"
// @Success 200 {object} apimodels.Response{data=credentialsapimodels.AdminRole}
// @Failure 401 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admins/{corporateId}/role [get]
func (c *credentialsApiController) adminRole(ctx *fiber.Ctx) error {
	resp, err := credentials.Instance.AdminRole(strings.TrimSpace(ctx.Params("corporateId")))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to fetch admin role")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
