package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelbunk/backend/src/lib"
	"github.com/travelbunk/backend/src/models"
)

// AddPhoto handles POST /api/add-photo.
func AddPhoto(c *fiber.Ctx) error {
	var body struct {
		Image       string `json:"image"`
		Author      string `json:"author"`
		AuthorEmail string `json:"authorEmail"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.JSON(lib.FailResponse("Invalid payload"))
	}
	if body.Image == "" || body.AuthorEmail == "" {
		return c.JSON(lib.FailResponse("Missing fields"))
	}

	author := body.Author
	if author == "" {
		author = "Unknown"
	}

	photo := models.Photo{
		Image:       body.Image,
		Author:      author,
		AuthorEmail: body.AuthorEmail,
		CreatedAt:   time.Now(),
	}

	res, err := lib.DB.Collection("photos").InsertOne(c.Context(), photo)
	if err != nil {
		lib.Log.WithError(err).Error("add-photo")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}
	photo.Id = res.InsertedID.(primitive.ObjectID)

	summary := models.PhotoSummary{Id: photo.Id, Image: photo.Image, Date: photo.CreatedAt}
	_, err = lib.DB.Collection("users").UpdateOne(c.Context(),
		bson.M{"email": body.AuthorEmail},
		bson.M{"$push": bson.M{"photos": summary}},
	)
	if err != nil {
		lib.Log.WithError(err).Warn("add-photo: push summary to author")
	}

	sink.Broadcast(c.Context(), "new-photo", photo)

	return c.JSON(fiber.Map{"success": true, "photo": photo})
}

// AllPhotos handles GET /api/all-photos, newest first.
func AllPhotos(c *fiber.Ctx) error {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := lib.DB.Collection("photos").Find(c.Context(), bson.M{}, opts)
	if err != nil {
		lib.Log.WithError(err).Error("all-photos")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}
	defer cursor.Close(c.Context())

	photos := []models.Photo{}
	if err := cursor.All(c.Context(), &photos); err != nil {
		lib.Log.WithError(err).Error("all-photos: decode")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}
	return c.JSON(fiber.Map{"success": true, "photos": photos})
}
