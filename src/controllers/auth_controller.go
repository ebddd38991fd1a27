package controllers

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gofiber/fiber/v2"

	"github.com/travelbunk/backend/src/lib"
	"github.com/travelbunk/backend/src/models"
	"github.com/travelbunk/backend/src/store"
)

const defaultImg = "https://cdn-icons-png.flaticon.com/512/1077/1077114.png"

// Signup registers a new user with empty request lists and connection set.
func Signup(c *fiber.Ctx) error {
	var data struct {
		FirstName   string        `json:"firstName"`
		LastName    string        `json:"lastName"`
		Email       string        `json:"email"`
		Phone       string        `json:"phone"`
		Age         string        `json:"age"`
		TravelStyle string        `json:"travelStyle"`
		Password    string        `json:"password"`
		Aadhaar     string        `json:"aadhaar"`
		Newsletter  bool          `json:"newsletter"`
		College     string        `json:"college"`
		Bio         string        `json:"bio"`
		Img         string        `json:"img"`
		Trips       []models.Trip `json:"trips"`
	}
	if err := c.BodyParser(&data); err != nil {
		return c.JSON(lib.FailResponse("Invalid payload"))
	}

	if data.FirstName == "" || data.Email == "" || data.Password == "" {
		return c.JSON(lib.FailResponse("Missing required fields"))
	}
	if !lib.ValidAadhaarFormat(data.Aadhaar) {
		return c.JSON(lib.FailResponse("Invalid Aadhaar number format"))
	}
	if !lib.AadhaarCheck(data.Aadhaar) {
		return c.JSON(lib.FailResponse("Invalid Aadhaar checksum"))
	}

	bio := data.Bio
	if bio == "" {
		bio = "Travel enthusiast. Love exploring new cultures!"
	}
	img := data.Img
	if img == "" {
		img = defaultImg
	}
	trips := data.Trips
	if trips == nil {
		trips = []models.Trip{}
	}

	newUser := models.User{
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Email:        data.Email,
		Phone:        data.Phone,
		Age:          data.Age,
		TravelStyle:  data.TravelStyle,
		Password:     data.Password,
		Aadhaar:      data.Aadhaar,
		Newsletter:   data.Newsletter,
		College:      data.College,
		Trips:        trips,
		Blogs:        []models.BlogSummary{},
		Photos:       []models.PhotoSummary{},
		Rating:       fmt.Sprintf("%.1f", 3.8+rand.Float64()*1.2),
		Badges:       []string{"🎒 New Explorer", "🧭 Joined TravelBuddy"},
		Bio:          bio,
		Img:          img,
		Requests:     []models.ConnectionRequest{},
		SentRequests: []models.ConnectionRequest{},
		Connections:  []string{},
	}

	if err := users.Insert(c.Context(), &newUser); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return c.JSON(lib.FailResponse("Email already exists"))
		}
		lib.Log.WithError(err).Error("signup: insert user")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}

	lib.Log.WithField("email", newUser.Email).Info("New user registered")
	return c.JSON(fiber.Map{"success": true, "user": newUser})
}

// Login matches email and password against the stored document.
func Login(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&data); err != nil {
		return c.JSON(lib.FailResponse("Invalid payload"))
	}
	if data.Email == "" || data.Password == "" {
		return c.JSON(lib.FailResponse("Missing fields"))
	}

	user, err := users.FindByEmail(c.Context(), data.Email)
	if err != nil || user.Password != data.Password {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			lib.Log.WithError(err).Error("login: find user")
			return c.JSON(lib.FailResponse("Server error"))
		}
		return c.JSON(lib.FailResponse("Invalid email or password"))
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// UpdateProfile applies a partial patch to the user identified by email.
func UpdateProfile(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.JSON(lib.FailResponse("Invalid payload"))
	}

	email, _ := body["email"].(string)
	if email == "" {
		return c.JSON(lib.FailResponse("Missing email"))
	}
	delete(body, "email")
	delete(body, "_id")

	if err := users.UpdateFields(c.Context(), email, body); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(lib.FailResponse("No changes or user not found"))
		}
		lib.Log.WithError(err).Error("update-profile")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}

	user, err := users.FindByEmail(c.Context(), email)
	if err != nil {
		lib.Log.WithError(err).Error("update-profile: reload user")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse("Server error"))
	}

	lib.Log.WithField("email", email).Info("Profile updated")
	return c.JSON(fiber.Map{"success": true, "user": user})
}
