package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Akki1725/socially/internal/models"
)

var (
	ErrNotFound              = errors.New("conversation not found")
	ErrInvalidParticipants   = errors.New("conversation requires two distinct participants")
	ErrDuplicateConversation = errors.New("conversation already exists for participants")
	ErrEmptyMessage          = errors.New("message text is empty")
)

// Repository persists conversations and their embedded message logs.
// Implementations must keep the structural invariant (exactly two distinct
// participants, at most one conversation per unordered pair) on every write.
type Repository interface {
	// GetOrCreate returns the conversation for the pair, creating an empty
	// one if absent. The operation is atomic: concurrent callers for the
	// same pair observe a single conversation.
	GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error)

	// FindByParticipants returns the existing conversation for the pair or
	// ErrNotFound. Argument order does not matter.
	FindByParticipants(ctx context.Context, userA, userB string) (*models.Conversation, error)

	// AppendMessage appends a message with a fresh timestamp and bumps the
	// conversation's last activity. The text is trimmed; ErrEmptyMessage if
	// nothing remains. The sender must be a participant.
	AppendMessage(ctx context.Context, convID primitive.ObjectID, senderID, text string) (*models.Message, error)

	// ListForUser returns every conversation containing userID, most
	// recently active first.
	ListForUser(ctx context.Context, userID string) ([]*models.Conversation, error)
}

func validateParticipants(a, b string) error {
	if a == "" || b == "" || a == b {
		return ErrInvalidParticipants
	}
	return nil
}
