package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is one document in the users collection. Connection requests live
// denormalized on both sides: the receiver keeps the record in Requests,
// the sender keeps its mirror in SentRequests, and accepted peers end up in
// Connections on both documents.
type User struct {
	Id            primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	FirstName     string              `json:"firstName" bson:"firstName"`
	LastName      string              `json:"lastName" bson:"lastName"`
	Email         string              `json:"email" bson:"email"`
	Phone         string              `json:"phone" bson:"phone"`
	Age           string              `json:"age" bson:"age"`
	TravelStyle   string              `json:"travelStyle" bson:"travelStyle"`
	Password      string              `json:"password" bson:"password"`
	Aadhaar       string              `json:"aadhaar" bson:"aadhaar"`
	Newsletter    bool                `json:"newsletter" bson:"newsletter"`
	College       string              `json:"college" bson:"college"`
	Trips         []Trip              `json:"trips" bson:"trips"`
	Blogs         []BlogSummary       `json:"blogs" bson:"blogs"`
	Photos        []PhotoSummary      `json:"photos" bson:"photos"`
	TotalDistance float64             `json:"totalDistance" bson:"totalDistance"`
	Rating        string              `json:"rating" bson:"rating"`
	Badges        []string            `json:"badges" bson:"badges"`
	Bio           string              `json:"bio" bson:"bio"`
	Img           string              `json:"img" bson:"img"`
	Requests      []ConnectionRequest `json:"requests" bson:"requests"`
	SentRequests  []ConnectionRequest `json:"sentRequests" bson:"sentRequests"`
	Connections   []string            `json:"connections" bson:"connections"`
}

// ConnectionRequest is one embedded request record. Incoming records carry
// FromEmail/FromName, outgoing records carry ToEmail; both copies of the same
// request share the Id.
type ConnectionRequest struct {
	Id        string         `json:"id" bson:"id"`
	FromEmail string         `json:"fromEmail,omitempty" bson:"fromEmail,omitempty"`
	FromName  string         `json:"fromName,omitempty" bson:"fromName,omitempty"`
	ToEmail   string         `json:"toEmail,omitempty" bson:"toEmail,omitempty"`
	Trip      map[string]any `json:"trip,omitempty" bson:"trip,omitempty"`
	Status    RequestStatus  `json:"status" bson:"status"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

type Trip struct {
	Destination string `json:"destination" bson:"destination"`
	Date        string `json:"date" bson:"date"`
	Description string `json:"description" bson:"description"`
}

// BlogSummary is the short blog card kept on the author's user document.
type BlogSummary struct {
	Id          primitive.ObjectID `json:"id" bson:"id"`
	Title       string             `json:"title" bson:"title"`
	Content     string             `json:"content" bson:"content"`
	Image       string             `json:"image" bson:"image"`
	Date        time.Time          `json:"date" bson:"date"`
	Destination string             `json:"destination" bson:"destination"`
}

type PhotoSummary struct {
	Id    primitive.ObjectID `json:"id" bson:"id"`
	Image string             `json:"image" bson:"image"`
	Date  time.Time          `json:"date" bson:"date"`
}

// UserCard is the projected shape returned by companion search.
type UserCard struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	Email     string `json:"email" bson:"email"`
	College   string `json:"college" bson:"college"`
	Img       string `json:"img" bson:"img"`
	Trips     []Trip `json:"trips" bson:"trips"`
}
