package lib

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Log is the shared application logger.
var Log = logrus.New()

func init() {
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// RequestLogger logs the method, path, status and duration of each request.
func RequestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	Log.WithFields(logrus.Fields{
		"method":   c.Method(),
		"path":     c.Path(),
		"status":   c.Response().StatusCode(),
		"duration": time.Since(start),
		"remote":   c.IP(),
	}).Info("HTTP Request")

	return err
}
