package apiv1

import (
	"fmt"
	"idea-portal-backend/controllers"
	pdfexport "idea-portal-backend/lib/export/pdf"
	xlsexport "idea-portal-backend/lib/export/xls"
	ideahandler "idea-portal-backend/lib/idea"
	authutils "idea-portal-backend/lib/utils/auth-utils"
	apimodels "idea-portal-backend/models/api"
	ideaapimodels "idea-portal-backend/models/api/idea"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type reviewApiController struct {
	controllers.BaseAPIController
}

// InitReviewApiRouters роутер должен быть закрыт авторизацией и проверкой роли администратора
func InitReviewApiRouters(app fiber.Router) {
	controller := reviewApiController{}
	app.Route("ideas", func(router fiber.Router) {
		router.Put(":id/status", controller.advance)
		router.Put(":id/reject", controller.reject)
		router.Put(":id/bookmark", controller.bookmark)
		router.Get(":id/pdf", controller.exportPdf)
	})
	app.Get("rejected", controller.rejected)
	app.Get("export/xlsx", controller.exportXlsx)
}

// @Summary Изменить статус идеи
// @Tags Рассмотрение идей
// @Description Статус сохраняется как <status>By<adminRole>. adminId и adminRole по умолчанию берутся из токена.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"Idea ID"
// @Param	body				body		ideaapimodels.AdvanceData	true	"request body"
// @Success 200 {object} apimodels.Response{data=ideaapimodels.IdeaView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review/ideas/{id}/status [put]
func (c *reviewApiController) advance(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload ideaapimodels.AdvanceData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if payload.AdminID == "" {
		payload.AdminID = authutils.GetCorporateID(ctx)
		payload.AdminName = withDefault(payload.AdminName, authutils.GetName(ctx))
	}
	payload.AdminRole = withDefault(payload.AdminRole, authutils.GetRole(ctx).ReviewTag())

	resp, err := ideahandler.Instance.Advance(ctx.UserContext(), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("idea_id", id), err, "Error updating status")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Status updated successfully", resp))
}

// @Summary Отклонить идею
// @Tags Рассмотрение идей
// @Description Идея переносится в архив отклонённых, автору уходит письмо
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"Idea ID"
// @Param	body				body		ideaapimodels.RejectData	true	"request body"
// @Success 200 {object} apimodels.Response{data=ideaapimodels.RejectedIdeaView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review/ideas/{id}/reject [put]
func (c *reviewApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload ideaapimodels.RejectData
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	payload.AdminID = withDefault(payload.AdminID, authutils.GetCorporateID(ctx))
	payload.AdminRole = withDefault(payload.AdminRole, authutils.GetRole(ctx).ReviewTag())

	resp, err := ideahandler.Instance.Reject(ctx.UserContext(), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("idea_id", id), err, "Error rejecting idea")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Idea rejected and moved successfully", resp))
}

// @Summary Закладка на идею
// @Tags Рассмотрение идей
// @Description Повторный вызов снимает закладку
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"Idea ID"
// @Param	body				body		ideaapimodels.BookmarkData	false	"request body"
// @Success 200 {object} apimodels.Response{data=ideaapimodels.BookmarkView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review/ideas/{id}/bookmark [put]
func (c *reviewApiController) bookmark(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload ideaapimodels.BookmarkData
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	payload.AdminID = withDefault(payload.AdminID, authutils.GetCorporateID(ctx))
	if err = payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Error updating bookmark")
	}
	list, err := ideahandler.Instance.ToggleBookmark(ctx.UserContext(), id, payload.AdminID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("idea_id", id), err, "Error updating bookmark")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(ideaapimodels.BookmarkView{BookmarkedBy: list}))
}

// @Summary Отклонённые идеи
// @Tags Рассмотрение идей
// @Description Архив отклонённых идей, новые сверху
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   employeeId			query		string	false	"Employee ID"
// @Success 200 {object} apimodels.Response{data=[]ideaapimodels.RejectedIdeaView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review/rejected [get]
func (c *reviewApiController) rejected(ctx *fiber.Ctx) error {
	var filter ideaapimodels.IdeaFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("Invalid query"))
	}
	resp, err := ideahandler.Instance.ListRejected(ctx.UserContext(), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Error fetching rejected ideas")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Выгрузить идеи в Excel
// @Tags Рассмотрение идей
// @Description Фильтры как у списка идей
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"Status"
// @Param   excludeStatus		query		string	false	"Exclude status"
// @Param   employeeId			query		string	false	"Employee ID"
// @Success 200
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review/export/xlsx [get]
func (c *reviewApiController) exportXlsx(ctx *fiber.Ctx) error {
	var filter ideaapimodels.IdeaFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("Invalid query"))
	}
	list, err := ideahandler.Instance.List(ctx.UserContext(), filter.Normalize())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Error exporting ideas")
	}
	data, err := xlsexport.Instance.ExportIdeas(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Error exporting ideas")
	}
	fileName := fmt.Sprintf("ideas-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Карточка идеи в PDF
// @Tags Рассмотрение идей
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"Idea ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/review/ideas/{id}/pdf [get]
func (c *reviewApiController) exportPdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	idea, err := ideahandler.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("idea_id", id), err, "Error exporting idea")
	}
	data, err := pdfexport.IdeaCard(*idea)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("idea_id", id), err, "Error exporting idea")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="idea-`+id+`.pdf"`)
	return ctx.Send(data)
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
