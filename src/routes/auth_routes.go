package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelbunk/backend/src/controllers"
)

// AuthRoutes registers signup, login and profile update.
func AuthRoutes(app *fiber.App) {
	app.Post("/api/signup", controllers.Signup)
	app.Post("/api/login", controllers.Login)
	app.Post("/api/update-profile", controllers.UpdateProfile)
}
