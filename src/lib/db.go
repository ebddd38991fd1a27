package lib

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB is the global database handle. ConnectDB must run before any route is
// served.
var DB *mongo.Database

// ConnectDB connects to MongoDB using MONGO_URI and selects the travel_bunk
// database (override with MONGO_DB).
func ConnectDB() error {
	uri := GetEnv("MONGO_URI", "mongodb://localhost:27017")
	dbName := GetEnv("MONGO_DB", "travel_bunk")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	DB = client.Database(dbName)
	Log.WithField("db", dbName).Info("Connected to MongoDB")
	return nil
}

// EnsureIndexes creates the indexes the collections rely on. The unique email
// index doubles as the identifier uniqueness constraint of the user directory.
func EnsureIndexes(ctx context.Context) error {
	_, err := DB.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	models := map[string][]mongo.IndexModel{
		"chats": {
			{Keys: bson.D{{Key: "users", Value: 1}}},
		},
		"blogs": {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "authorEmail", Value: 1}}},
		},
		"photos": {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "authorEmail", Value: 1}}},
		},
	}
	for coll, idx := range models {
		if _, err := DB.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
