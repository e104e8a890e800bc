package apiv1

import (
	"idea-portal-backend/controllers"
	"idea-portal-backend/lib/otp"
	apimodels "idea-portal-backend/models/api"
	otpapimodels "idea-portal-backend/models/api/otp"

	"github.com/gofiber/fiber/v2"
)

type otpApiController struct {
	controllers.BaseAPIController
}

func InitOtpApiRouters(app fiber.Router) {
	controller := otpApiController{}
	app.Route("otp", func(router fiber.Router) {
		router.Post("request", controller.request)
		router.Post("resend", controller.resend)
		router.Post("verify", controller.verify)
	})
}

// @Summary Запросить OTP
// @Tags Аутентификация
// @Description Код отправляется на почту сотрудника или администратора
// @Param	body				body		otpapimodels.OtpRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=otpapimodels.OtpIssued}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 429 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/otp/request [post]
func (c *otpApiController) request(ctx *fiber.Ctx) error {
	var payload otpapimodels.OtpRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := otp.Instance.Request(ctx.UserContext(), payload.CorporateID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("otp_corporate_id", payload.CorporateID), err, "Failed to send OTP")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("OTP sent successfully", resp))
}

// @Summary Повторно отправить OTP
// @Tags Аутентификация
// @Description Выпускает новый код, прежний перестаёт действовать
// @Param	body				body		otpapimodels.OtpRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=otpapimodels.OtpIssued}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 429 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/otp/resend [post]
func (c *otpApiController) resend(ctx *fiber.Ctx) error {
	var payload otpapimodels.OtpRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := otp.Instance.Resend(ctx.UserContext(), payload.CorporateID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("otp_corporate_id", payload.CorporateID), err, "Failed to resend OTP")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("OTP resent successfully", resp))
}

// @Summary Проверить OTP
// @Tags Аутентификация
// @Description Код одноразовый; при успехе выдаётся JWT
// @Param	body				body		otpapimodels.OtpVerify	true	"request body"
// @Success 200 {object} apimodels.Response{data=otpapimodels.OtpVerified}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/otp/verify [post]
func (c *otpApiController) verify(ctx *fiber.Ctx) error {
	var payload otpapimodels.OtpVerify
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := otp.Instance.Verify(ctx.UserContext(), payload.CorporateID, payload.Otp)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("otp_corporate_id", payload.CorporateID), err, "Failed to verify OTP")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("OTP verified successfully", resp))
}
