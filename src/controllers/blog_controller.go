package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelbunk/backend/src/lib"
	"github.com/travelbunk/backend/src/models"
)

// AddBlog handles POST /api/add-blog: stores the blog globally, mirrors a
// summary onto the author's document and broadcasts new-blog.
func AddBlog(c *fiber.Ctx) error {
	var body struct {
		Title       string   `json:"title"`
		Content     string   `json:"content"`
		Image       []string `json:"image"`
		Video       []string `json:"video"`
		Author      string   `json:"author"`
		AuthorEmail string   `json:"authorEmail"`
		Destination string   `json:"destination"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.JSON(lib.FailResponse("Invalid payload"))
	}
	if body.Title == "" || body.Content == "" {
		return c.JSON(lib.FailResponse("Missing title or content"))
	}

	author := body.Author
	if author == "" {
		author = "Anonymous"
	}
	if body.Image == nil {
		body.Image = []string{}
	}
	if body.Video == nil {
		body.Video = []string{}
	}

	now := time.Now()
	blog := models.Blog{
		Title:       body.Title,
		Content:     body.Content,
		Image:       body.Image,
		Video:       body.Video,
		Author:      author,
		AuthorEmail: body.AuthorEmail,
		Destination: body.Destination,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := lib.DB.Collection("blogs").InsertOne(c.Context(), blog)
	if err != nil {
		lib.Log.WithError(err).Error("add-blog")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}
	blog.Id = res.InsertedID.(primitive.ObjectID)

	if body.AuthorEmail != "" {
		summaryImg := ""
		if len(blog.Image) > 0 {
			summaryImg = blog.Image[0]
		}
		summary := models.BlogSummary{
			Id:          blog.Id,
			Title:       blog.Title,
			Content:     blog.Content,
			Image:       summaryImg,
			Date:        blog.CreatedAt,
			Destination: blog.Destination,
		}
		_, err := lib.DB.Collection("users").UpdateOne(c.Context(),
			bson.M{"email": body.AuthorEmail},
			bson.M{"$push": bson.M{"blogs": summary}},
		)
		if err != nil {
			lib.Log.WithError(err).Warn("add-blog: push summary to author")
		}
	}

	sink.Broadcast(c.Context(), "new-blog", blog)

	return c.JSON(fiber.Map{"success": true, "blog": blog})
}

// AllBlogs handles GET /api/all-blogs, newest first.
func AllBlogs(c *fiber.Ctx) error {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := lib.DB.Collection("blogs").Find(c.Context(), bson.M{}, opts)
	if err != nil {
		lib.Log.WithError(err).Error("all-blogs")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}
	defer cursor.Close(c.Context())

	blogs := []models.Blog{}
	if err := cursor.All(c.Context(), &blogs); err != nil {
		lib.Log.WithError(err).Error("all-blogs: decode")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}
	return c.JSON(fiber.Map{"success": true, "blogs": blogs})
}

// GetBlog handles GET /api/blog/:id.
func GetBlog(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.FailResponse("Invalid blog id"))
	}

	var blog models.Blog
	err = lib.DB.Collection("blogs").FindOne(c.Context(), bson.M{"_id": id}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusNotFound).JSON(lib.FailResponse("Blog not found"))
	}
	if err != nil {
		lib.Log.WithError(err).Error("get-blog")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}
	return c.JSON(fiber.Map{"success": true, "blog": blog})
}
