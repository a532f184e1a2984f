package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Akki1725/socially/internal/models"
)

// MongoRepository stores each conversation as a single document with the
// message log embedded. The unique index on pair_key makes find-or-create
// safe under concurrent sends for a previously absent pair.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	idxs := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("pair_key_uniq"),
		},
		{
			Keys:    bson.D{{Key: "participants", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("participants_updated_idx"),
		},
	}
	_, _ = coll.Indexes().CreateMany(context.Background(), idxs)
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	if err := validateParticipants(userA, userB); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	key := models.PairKey(userA, userB)
	update := bson.M{"$setOnInsert": bson.M{
		"pair_key":     key,
		"participants": models.SortedPair(userA, userB),
		"messages":     []models.Message{},
		"created_at":   now,
		"updated_at":   now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var c models.Conversation
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"pair_key": key}, update, opts).Decode(&c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost an upsert race; the winner's document is visible now.
			if ferr := r.coll.FindOne(ctx, bson.M{"pair_key": key}).Decode(&c); ferr == nil {
				return &c, nil
			}
			return nil, ErrDuplicateConversation
		}
		return nil, err
	}
	return &c, nil
}

func (r *MongoRepository) FindByParticipants(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	if err := validateParticipants(userA, userB); err != nil {
		return nil, err
	}
	var c models.Conversation
	err := r.coll.FindOne(ctx, bson.M{"pair_key": models.PairKey(userA, userB)}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MongoRepository) AppendMessage(ctx context.Context, convID primitive.ObjectID, senderID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	msg := models.Message{
		ID:        primitive.NewObjectID(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	// The filter also requires the sender to be a participant, so a write
	// from an outsider matches nothing instead of corrupting the thread.
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": convID, "participants": senderID},
		bson.M{
			"$push": bson.M{"messages": msg},
			"$set":  bson.M{"updated_at": msg.Timestamp},
		})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &msg, nil
}

func (r *MongoRepository) ListForUser(ctx context.Context, userID string) ([]*models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Conversation
	for cur.Next(ctx) {
		var c models.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}
