package controllers

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/travelbunk/backend/src/lib"
	"github.com/travelbunk/backend/src/models"
	"github.com/travelbunk/backend/src/store"
)

// UserProfile handles GET /api/user-profile?email=.
func UserProfile(c *fiber.Ctx) error {
	user, err := users.FindByEmail(c.Context(), c.Query("email"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(lib.FailResponse("Not found"))
		}
		lib.Log.WithError(err).Error("user-profile")
		return c.JSON(lib.FailResponse("Server error"))
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// GetAllUsers handles GET /api/get-all-users.
func GetAllUsers(c *fiber.Ctx) error {
	cursor, err := lib.DB.Collection("users").Find(c.Context(), bson.M{})
	if err != nil {
		lib.Log.WithError(err).Error("get-all-users")
		return c.JSON(lib.FailResponse("Server error"))
	}
	defer cursor.Close(c.Context())

	var all []models.User
	if err := cursor.All(c.Context(), &all); err != nil {
		lib.Log.WithError(err).Error("get-all-users: decode")
		return c.JSON(lib.FailResponse("Server error"))
	}
	return c.JSON(fiber.Map{"success": true, "users": all})
}

// UserTrips handles GET /api/user-trips/:email.
func UserTrips(c *fiber.Ctx) error {
	user, err := users.FindByEmail(c.Context(), c.Params("email"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(lib.FailResponse("User not found"))
		}
		lib.Log.WithError(err).Error("user-trips")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}

	trips := user.Trips
	if trips == nil {
		trips = []models.Trip{}
	}
	return c.JSON(fiber.Map{"success": true, "trips": trips})
}

// UserBlogs handles GET /api/blogs/:email, the blog summaries kept on the
// user document.
func UserBlogs(c *fiber.Ctx) error {
	user, err := users.FindByEmail(c.Context(), c.Params("email"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(lib.FailResponse("User not found"))
		}
		lib.Log.WithError(err).Error("user-blogs")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}

	blogs := user.Blogs
	if blogs == nil {
		blogs = []models.BlogSummary{}
	}
	return c.JSON(fiber.Map{"success": true, "blogs": blogs})
}

// FindUsersByTrip handles POST /api/find-users-by-trip: companions with a
// trip on the given date to the given destination (case-insensitive).
func FindUsersByTrip(c *fiber.Ctx) error {
	var body struct {
		Date        string `json:"date"`
		Destination string `json:"destination"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.JSON(lib.FailResponse("Invalid payload"))
	}
	if body.Date == "" || body.Destination == "" {
		return c.JSON(lib.FailResponse("Missing date or destination"))
	}

	filter := bson.M{
		"trips": bson.M{
			"$elemMatch": bson.M{
				"date":        body.Date,
				"destination": bson.M{"$regex": "^" + regexp.QuoteMeta(body.Destination) + "$", "$options": "i"},
			},
		},
	}
	cursor, err := lib.DB.Collection("users").Find(c.Context(), filter)
	if err != nil {
		lib.Log.WithError(err).Error("find-users-by-trip")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}
	defer cursor.Close(c.Context())

	var matched []models.User
	if err := cursor.All(c.Context(), &matched); err != nil {
		lib.Log.WithError(err).Error("find-users-by-trip: decode")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}

	cards := make([]models.UserCard, 0, len(matched))
	for _, u := range matched {
		img := u.Img
		if img == "" {
			img = defaultImg
		}
		var trips []models.Trip
		for _, t := range u.Trips {
			if t.Date == body.Date && strings.EqualFold(t.Destination, body.Destination) {
				trips = append(trips, t)
			}
		}
		cards = append(cards, models.UserCard{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			College:   u.College,
			Img:       img,
			Trips:     trips,
		})
	}
	return c.JSON(fiber.Map{"success": true, "users": cards})
}

// Ping handles GET /api/ping.
func Ping(c *fiber.Ctx) error {
	return c.JSON(lib.SuccessResponse())
}
