package identity

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Akki1725/socially/internal/models"
)

// MongoDirectory reads public profiles from the app's users collection.
type MongoDirectory struct {
	coll *mongo.Collection
}

func NewMongoDirectory(coll *mongo.Collection) *MongoDirectory {
	return &MongoDirectory{coll: coll}
}

type userDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	Username       string             `bson:"username"`
	ProfilePicture string             `bson:"profilePicture"`
}

func (d *MongoDirectory) Lookup(ctx context.Context, userID string) (*models.UserProfile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		// a malformed id can never name an existing user
		return nil, ErrUserNotFound
	}
	opts := options.FindOne().SetProjection(bson.M{"username": 1, "profilePicture": 1})
	var u userDoc
	err = d.coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		ID:             u.ID.Hex(),
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}, nil
}
