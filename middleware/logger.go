package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func Logger() fiber.Handler {
	// websocket upgrades stay open for the lifetime of a panel, so their
	// latency numbers are noise
	skipSockets := func(c *fiber.Ctx) bool {
		return strings.HasPrefix(c.Path(), "/ws/")
	}

	env := os.Getenv("APP_ENV")
	if env == "prod" {
		return logger.New(logger.Config{
			Next:       skipSockets,
			Format:     `{"time":"${time}","ip":"${ip}","method":"${method}","path":"${path}","status":${status},"latency":"${latency}"}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "Local",
			Output:     os.Stdout,
		})
	}
	// dev mode
	return logger.New(logger.Config{
		Next:       skipSockets,
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
		Output:     os.Stdout,
	})
}
