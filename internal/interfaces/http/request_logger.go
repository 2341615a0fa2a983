package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

// RequestLogger registra método, ruta, status y latencia de cada request.
// Usa el request id que deja el middleware requestid.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case err != nil || status >= fiber.StatusInternalServerError:
			ev = log.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		rid, _ := c.Locals("requestid").(string)
		ev.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return err
	}
}
