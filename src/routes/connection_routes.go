package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelbunk/backend/src/controllers"
)

// ConnectionRoutes registers the connection-request operations.
func ConnectionRoutes(app *fiber.App) {
	app.Post("/api/send-request", controllers.SendRequest)
	app.Post("/api/respond-request", controllers.RespondRequest)
	app.Get("/api/requests", controllers.GetRequests)
	app.Get("/api/connection-status", controllers.ConnectionStatus)
}
