package middleware

import (
	"idea-portal-backend/lib/metrics"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.HttpRequestStarted()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		// шаблон маршрута, а не сырой путь: иначе id идей раздуют кардинальность
		path := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			path = r.Path
		}
		metrics.HttpRequestFinished(c.Method(), path, strconv.Itoa(status), time.Since(start).Seconds())
		return err
	}
}
