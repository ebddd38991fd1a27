package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travelbunk/backend/src/controllers"
)

// BlogRoutes registers the global blog feed.
func BlogRoutes(app *fiber.App) {
	app.Post("/api/add-blog", controllers.AddBlog)
	app.Get("/api/all-blogs", controllers.AllBlogs)
	app.Get("/api/blog/:id", controllers.GetBlog)
}
