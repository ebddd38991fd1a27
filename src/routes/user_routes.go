package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelbunk/backend/src/controllers"
)

// UserRoutes registers profile lookup and companion search.
func UserRoutes(app *fiber.App) {
	app.Get("/api/user-profile", controllers.UserProfile)
	app.Get("/api/get-all-users", controllers.GetAllUsers)
	app.Get("/api/user-trips/:email", controllers.UserTrips)
	app.Get("/api/blogs/:email", controllers.UserBlogs)
	app.Post("/api/find-users-by-trip", controllers.FindUsersByTrip)
	app.Get("/api/ping", controllers.Ping)
}
