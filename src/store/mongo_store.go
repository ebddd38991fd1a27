package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelbunk/backend/src/models"
)

// MongoUserStore implements UserStore over the users collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection("users")}
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) error {
	res, err := s.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.Id = oid
	}
	return nil
}

func (s *MongoUserStore) UpdateFields(ctx context.Context, email string, patch map[string]any) error {
	set := bson.M{}
	for k, v := range patch {
		set[k] = v
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) PushIncomingRequest(ctx context.Context, email string, req models.ConnectionRequest) error {
	return s.push(ctx, email, "requests", req)
}

func (s *MongoUserStore) PushOutgoingRequest(ctx context.Context, email string, req models.ConnectionRequest) error {
	return s.push(ctx, email, "sentRequests", req)
}

func (s *MongoUserStore) push(ctx context.Context, email, field string, req models.ConnectionRequest) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$push": bson.M{field: req}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) SetIncomingStatus(ctx context.Context, email, requestID string, status models.RequestStatus) error {
	return s.setStatus(ctx, email, "requests", requestID, status)
}

func (s *MongoUserStore) SetOutgoingStatus(ctx context.Context, email, requestID string, status models.RequestStatus) error {
	return s.setStatus(ctx, email, "sentRequests", requestID, status)
}

func (s *MongoUserStore) setStatus(ctx context.Context, email, field, requestID string, status models.RequestStatus) error {
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []any{bson.M{"r.id": requestID}},
	})
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{field + ".$[r].status": status}},
		opts,
	)
	return err
}

func (s *MongoUserStore) AddConnection(ctx context.Context, email, peer string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$addToSet": bson.M{"connections": peer}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
