package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Photo struct {
	Id          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Image       string             `json:"image" bson:"image"`
	Author      string             `json:"author" bson:"author"`
	AuthorEmail string             `json:"authorEmail" bson:"authorEmail"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
