package apiv1

import (
	"idea-portal-backend/controllers"
	ideahandler "idea-portal-backend/lib/idea"
	authutils "idea-portal-backend/lib/utils/auth-utils"
	"idea-portal-backend/middleware"
	apimodels "idea-portal-backend/models/api"
	ideaapimodels "idea-portal-backend/models/api/idea"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const attachmentField = "attachment"

type ideaApiController struct {
	controllers.BaseAPIController
}

// InitIdeaApiRouters роутер должен быть закрыт авторизацией
func InitIdeaApiRouters(app fiber.Router) {
	controller := ideaApiController{}
	app.Route("ideas", func(router fiber.Router) {
		router.Post("", controller.submit)
		router.Get("", controller.list)
		router.Get(":id", controller.get)
		router.Get(":id/attachment", controller.attachment)
	})
	app.Get("users/:employeeId/ideas", middleware.OwnerOrAdminRequired("employeeId"), controller.userIdeas)
}

// @Summary Подать идею
// @Tags Идеи
// @Description multipart/form-data, файл в поле attachment необязателен
// @Accept  multipart/form-data
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   employeeName		formData	string	true	"Employee name"
// @Param   employeeId			formData	string	true	"Employee ID"
// @Param   ideaDescription		formData	string	true	"Idea description"
// @Param   attachment			formData	file	false	"Attachment"
// @Success 201 {object} apimodels.Response{data=ideaapimodels.IdeaView}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ideas [post]
func (c *ideaApiController) submit(ctx *fiber.Ctx) error {
	var payload ideaapimodels.IdeaSubmitData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Error submitting idea")
	}
	attachment, closeFn, err := formAttachment(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("Invalid attachment"))
	}
	defer closeFn()

	resp, err := ideahandler.Instance.Submit(ctx.UserContext(), payload, attachment)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Error submitting idea")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewMessage("Idea submitted successfully", resp))
}

// @Summary Список идей
// @Tags Идеи
// @Description По умолчанию отклонённые идеи не попадают в список. Сотрудник видит только свои идеи.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"Status"
// @Param   excludeStatus		query		string	false	"Exclude status"
// @Param   employeeId			query		string	false	"Employee ID"
// @Success 200 {object} apimodels.Response{data=[]ideaapimodels.IdeaView}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ideas [get]
func (c *ideaApiController) list(ctx *fiber.Ctx) error {
	var filter ideaapimodels.IdeaFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("Invalid query"))
	}
	if !authutils.GetRole(ctx).IsAdmin() {
		filter.EmployeeID = authutils.GetCorporateID(ctx)
	}
	resp, err := ideahandler.Instance.List(ctx.UserContext(), filter.Normalize())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Error fetching ideas")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Идея
// @Tags Идеи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"Idea ID"
// @Success 200 {object} apimodels.Response{data=ideaapimodels.IdeaView}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ideas/{id} [get]
func (c *ideaApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ideahandler.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("idea_id", id), err, "Error fetching idea")
	}
	if !canRead(ctx, resp.EmployeeID) {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("Access denied"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Вложение идеи
// @Tags Идеи
// @Description Файл отдаётся потоком, доступен и для отклонённых идей
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"Idea ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ideas/{id}/attachment [get]
func (c *ideaApiController) attachment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, fileName, err := ideahandler.Instance.Attachment(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("idea_id", id), err, "Error fetching attachment")
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	ctx.Attachment(fileName)
	ctx.Set(fiber.HeaderContentType, contentType)
	// fasthttp закрывает поток после отправки
	return ctx.SendStream(file.Reader, int(file.Size))
}

// @Summary Идеи сотрудника
// @Tags Идеи
// @Description Сводка: всего, одобрено, отклонено, списки активных и отклонённых идей
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   employeeId			path		string	true	"Employee ID"
// @Success 200 {object} apimodels.Response{data=ideaapimodels.UserIdeasSummary}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{employeeId}/ideas [get]
func (c *ideaApiController) userIdeas(ctx *fiber.Ctx) error {
	employeeID := ctx.Params("employeeId")
	resp, err := ideahandler.Instance.UserSummary(ctx.UserContext(), employeeID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("employee_id", employeeID), err, "Error fetching user ideas")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func canRead(ctx *fiber.Ctx, employeeID string) bool {
	return authutils.GetRole(ctx).IsAdmin() || authutils.GetCorporateID(ctx) == employeeID
}

// formAttachment nil без файла; closeFn вызывать всегда
func formAttachment(ctx *fiber.Ctx) (*ideaapimodels.Attachment, func(), error) {
	noop := func() {}
	if !isMultipart(ctx) {
		return nil, noop, nil
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, noop, err
	}
	files := form.File[attachmentField]
	if len(files) == 0 {
		return nil, noop, nil
	}
	header := files[0]
	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return attachmentFromHeader(header, file), func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("ошибка закрытия вложения")
		}
	}, nil
}

func attachmentFromHeader(header *multipart.FileHeader, file multipart.File) *ideaapimodels.Attachment {
	contentType := header.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	return &ideaapimodels.Attachment{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Reader:      file,
	}
}

func isMultipart(ctx *fiber.Ctx) bool {
	return strings.HasPrefix(string(ctx.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}
