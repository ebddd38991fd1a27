package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Blog struct {
	Id          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Content     string             `json:"content" bson:"content"`
	Image       []string           `json:"image" bson:"image"`
	Video       []string           `json:"video" bson:"video"`
	Author      string             `json:"author" bson:"author"`
	AuthorEmail string             `json:"authorEmail" bson:"authorEmail"`
	Destination string             `json:"destination" bson:"destination"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
