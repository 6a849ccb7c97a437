package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orderflow-api/pkg/logger"
)

// RequestLogger registra método, ruta, estado y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			code, _ := statusFor(err)
			status = code
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return err
	}
}

func statusFor(err error) (int, string) {
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Code, "HTTP_ERROR"
	}
	return status(err)
}
