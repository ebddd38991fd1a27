package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelbunk/backend/src/controllers"
)

// WSRoutes registers the real-time notification endpoint.
func WSRoutes(app *fiber.App) {
	app.Use("/ws", controllers.WSUpgrade)
	app.Get("/ws", controllers.WSSubscribe())
}
