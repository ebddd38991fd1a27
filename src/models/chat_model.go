package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat holds the full message history for one pair of users. Users is the
// sorted email pair, so either participant resolves the same document.
type Chat struct {
	Id        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Users     []string           `json:"users" bson:"users"`
	Messages  []Message          `json:"messages" bson:"messages"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Message struct {
	Sender string    `json:"sender" bson:"sender"`
	Text   string    `json:"text" bson:"text"`
	Time   time.Time `json:"time" bson:"time"`
}
