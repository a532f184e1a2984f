package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Akki1725/socially/internal/models"
)

// MemoryRepository keeps conversations in process memory. It mirrors the
// Mongo repository's semantics and is used by tests and local development
// without a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	byPair map[string]*models.Conversation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byPair: make(map[string]*models.Conversation)}
}

func (r *MemoryRepository) GetOrCreate(_ context.Context, userA, userB string) (*models.Conversation, error) {
	if err := validateParticipants(userA, userB); err != nil {
		return nil, err
	}
	key := models.PairKey(userA, userB)

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byPair[key]; ok {
		return copyConversation(c), nil
	}
	now := time.Now().UTC()
	c := &models.Conversation{
		ID:           primitive.NewObjectID(),
		PairKey:      key,
		Participants: models.SortedPair(userA, userB),
		Messages:     []models.Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byPair[key] = c
	return copyConversation(c), nil
}

func (r *MemoryRepository) FindByParticipants(_ context.Context, userA, userB string) (*models.Conversation, error) {
	if err := validateParticipants(userA, userB); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byPair[models.PairKey(userA, userB)]
	if !ok {
		return nil, ErrNotFound
	}
	return copyConversation(c), nil
}

func (r *MemoryRepository) AppendMessage(_ context.Context, convID primitive.ObjectID, senderID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var conv *models.Conversation
	for _, c := range r.byPair {
		if c.ID == convID {
			conv = c
			break
		}
	}
	if conv == nil || !contains(conv.Participants, senderID) {
		return nil, ErrNotFound
	}
	msg := models.Message{
		ID:        primitive.NewObjectID(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.Timestamp
	return &msg, nil
}

func (r *MemoryRepository) ListForUser(_ context.Context, userID string) ([]*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Conversation
	for _, c := range r.byPair {
		if contains(c.Participants, userID) {
			out = append(out, copyConversation(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func copyConversation(c *models.Conversation) *models.Conversation {
	cp := *c
	cp.Participants = append([]string(nil), c.Participants...)
	cp.Messages = append([]models.Message(nil), c.Messages...)
	return &cp
}
