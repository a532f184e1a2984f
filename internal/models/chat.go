package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one immutable, attributed text entry inside a conversation.
// Messages are embedded in their conversation document and never edited
// or deleted once appended.
type Message struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	SenderID  string             `bson:"sender_id" json:"senderId"`
	Text      string             `bson:"text" json:"text"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Conversation is the persistent thread between exactly two users. Its
// identity is the unordered participant pair; PairKey carries the canonical
// form so a unique index can hold the one-conversation-per-pair invariant.
type Conversation struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PairKey      string             `bson:"pair_key" json:"-"`
	Participants []string           `bson:"participants" json:"participants"`
	Messages     []Message          `bson:"messages" json:"messages"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// PairKey returns the canonical key for an unordered participant pair.
// Both argument orders yield the same key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// SortedPair returns the pair as a sorted two-element slice.
func SortedPair(a, b string) []string {
	p := []string{a, b}
	sort.Strings(p)
	return p
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// LastMessage returns the most recent message, or nil for an empty thread.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// UserProfile is the public slice of a user document. The users collection
// is owned by the rest of the app; this service only reads it.
type UserProfile struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}
