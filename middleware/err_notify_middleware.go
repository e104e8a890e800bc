package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ErrNotify отправляет в Sentry ответы с кодом 5xx
func ErrNotify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			// ошибку обработает ErrorHandler приложения, код ответа ещё не выставлен
			if fe, ok := err.(*fiber.Error); ok && fe.Code < http.StatusInternalServerError {
				return err
			}
		} else if c.Response().StatusCode() < http.StatusInternalServerError {
			return nil
		}

		var data struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil && err == nil {
			log.WithError(unmErr).Debug("ответ с ошибкой не в формате json")
		}
		msg := data.Message
		if err != nil {
			msg = err.Error()
		}
		if msg == "" {
			msg = string(c.Response().Body())
		}

		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		method := c.Method()
		status := c.Response().StatusCode()
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("method", method)
			scope.SetTag("path", path)
			scope.SetExtra("status", status)
			scope.SetLevel(sentry.LevelError)
			sentry.CaptureMessage(method + " " + path + ": " + msg)
		})
		return err
	}
}
