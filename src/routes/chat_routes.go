package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelbunk/backend/src/controllers"
)

// ChatRoutes registers direct messaging.
func ChatRoutes(app *fiber.App) {
	app.Get("/api/get-chat", controllers.GetChat)
	app.Post("/api/send-message", controllers.SendMessage)
}
