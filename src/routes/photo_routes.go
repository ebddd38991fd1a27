package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelbunk/backend/src/controllers"
)

// PhotoRoutes registers the global photo feed.
func PhotoRoutes(app *fiber.App) {
	app.Post("/api/add-photo", controllers.AddPhoto)
	app.Get("/api/all-photos", controllers.AllPhotos)
}
