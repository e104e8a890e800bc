package ws

import (
	wsclient "idea-portal-backend/lib/ws/client"
	connectionhub "idea-portal-backend/lib/ws/hub/connection-hub"
	authutils "idea-portal-backend/lib/utils/auth-utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// InitWs роутер должен быть закрыт авторизацией администратора
func InitWs(router fiber.Router) {
	router.Use("/ws", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals("userID", authutils.GetCorporateID(ctx))
		return ctx.Next()
	})
	router.Get("/ws", websocket.New(eventsHandler))
}

// @Summary События по идеям
// @Tags Websocket
// @Description Подключённые администраторы получают события подачи, рассмотрения, отклонения и закладок
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 401
// @Failure 403
// @Failure 426
// @router /api/v1/review/ws [get]
func eventsHandler(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(string)
	client := wsclient.NewClient(userID, c)
	connectionhub.Instance.AddClient(userID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(userID)
	}()
	client.Dispatch()
}
