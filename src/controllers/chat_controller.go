package controllers

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelbunk/backend/src/lib"
	"github.com/travelbunk/backend/src/models"
)

// chatPair is the sorted email pair keying a chat document, so both
// participants resolve the same conversation.
func chatPair(a, b string) []string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair
}

// GetChat handles GET /api/get-chat?user1=&user2=.
func GetChat(c *fiber.Ctx) error {
	pair := chatPair(c.Query("user1"), c.Query("user2"))

	var chat models.Chat
	err := lib.DB.Collection("chats").FindOne(c.Context(), bson.M{"users": pair}).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		return c.JSON(fiber.Map{"success": true, "messages": []models.Message{}, "chatId": nil})
	}
	if err != nil {
		lib.Log.WithError(err).Error("get-chat")
		return c.JSON(lib.FailResponse("Server error"))
	}
	return c.JSON(fiber.Map{"success": true, "messages": chat.Messages, "chatId": chat.Id})
}

// SendMessage handles POST /api/send-message: upserts the chat for the pair,
// appends the message and pushes it to both users' channels. Messaging is not
// gated on an established connection.
func SendMessage(c *fiber.Ctx) error {
	var body struct {
		From string `json:"from"`
		To   string `json:"to"`
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.JSON(lib.FailResponse("Invalid payload"))
	}
	if body.From == "" || body.To == "" || body.Text == "" {
		return c.JSON(lib.FailResponse("Missing fields"))
	}

	pair := chatPair(body.From, body.To)
	msg := models.Message{
		Sender: body.From,
		Text:   body.Text,
		Time:   time.Now(),
	}

	_, err := lib.DB.Collection("chats").UpdateOne(c.Context(),
		bson.M{"users": pair},
		bson.M{
			"$push":        bson.M{"messages": msg},
			"$setOnInsert": bson.M{"users": pair, "createdAt": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		lib.Log.WithError(err).Error("send-message")
		return c.JSON(lib.FailResponse("Server error"))
	}

	sink.Publish(c.Context(), body.From, "new-message", msg)
	sink.Publish(c.Context(), body.To, "new-message", msg)

	return c.JSON(lib.SuccessResponse())
}
