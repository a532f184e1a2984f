package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Akki1725/socially/internal/events"
	"github.com/Akki1725/socially/internal/identity"
	"github.com/Akki1725/socially/internal/metrics"
	"github.com/Akki1725/socially/internal/models"
	"github.com/Akki1725/socially/internal/repository"
)

// Broadcaster pushes an event to the locally connected clients of the
// conversation's participants.
type Broadcaster interface {
	BroadcastNewMessage(ev events.NewMessage)
}

// Publisher hands an event to the cross-instance event bus.
type Publisher interface {
	PublishNewMessage(ctx context.Context, ev events.NewMessage) error
}

// NopPublisher is used when the event bus is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishNewMessage(context.Context, events.NewMessage) error { return nil }

// ChatService is the user-facing protocol for listing, fetching and sending
// direct messages.
type ChatService struct {
	repo      repository.Repository
	users     identity.Directory
	broadcast Broadcaster
	publisher Publisher
	log       *zap.SugaredLogger
}

func NewChatService(repo repository.Repository, users identity.Directory, b Broadcaster, p Publisher, log *zap.SugaredLogger) *ChatService {
	if p == nil {
		p = NopPublisher{}
	}
	return &ChatService{repo: repo, users: users, broadcast: b, publisher: p, log: log}
}

// ListConversations returns every conversation containing userID, most
// recently active first. Conversations without messages are included with a
// nil last message.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	convs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		other, err := s.users.Lookup(ctx, c.OtherParticipant(userID))
		if errors.Is(err, identity.ErrUserNotFound) {
			// the other account no longer resolves; hide the thread
			s.log.Warnw("conversation references unknown user",
				"conversation", c.ID.Hex(), "user", c.OtherParticipant(userID))
			continue
		}
		if err != nil {
			return nil, err
		}
		sum := models.ConversationSummary{
			ID:               c.ID.Hex(),
			OtherParticipant: *other,
			UpdatedAt:        c.UpdatedAt,
		}
		if last := c.LastMessage(); last != nil {
			sum.LastMessage = &models.LastMessageView{
				Text:      last.Text,
				Timestamp: last.Timestamp,
				SenderID:  last.SenderID,
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

// GetOrCreateConversation returns the thread between userID and otherID,
// creating an empty one if the pair has never talked.
func (s *ChatService) GetOrCreateConversation(ctx context.Context, userID, otherID string) (*models.ConversationDetail, error) {
	if userID == otherID {
		return nil, ErrSelfChat
	}
	other, err := s.users.Lookup(ctx, otherID)
	if err != nil {
		return nil, err
	}
	conv, err := s.repo.GetOrCreate(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	profiles := map[string]models.UserProfile{otherID: *other}
	if len(conv.Messages) > 0 {
		me, err := s.users.Lookup(ctx, userID)
		if err != nil && !errors.Is(err, identity.ErrUserNotFound) {
			return nil, err
		}
		if me != nil {
			profiles[userID] = *me
		}
	}

	msgs := make([]models.MessageView, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, models.MessageView{
			ID:        m.ID.Hex(),
			Sender:    profiles[m.SenderID],
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}
	return &models.ConversationDetail{
		ID:               conv.ID.Hex(),
		OtherParticipant: *other,
		Messages:         msgs,
	}, nil
}

// SendMessage appends text to the pair's conversation and notifies both
// participants. The broadcast fires only after the message is persisted; a
// failed persist surfaces to the caller and nothing is delivered.
func (s *ChatService) SendMessage(ctx context.Context, userID, otherID, text string) (*models.MessageView, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if userID == otherID {
		return nil, ErrSelfChat
	}
	if _, err := s.users.Lookup(ctx, otherID); err != nil {
		return nil, err
	}
	conv, err := s.repo.GetOrCreate(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	msg, err := s.repo.AppendMessage(ctx, conv.ID, userID, text)
	if err != nil {
		return nil, err
	}
	sender, err := s.users.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := models.MessageView{
		ID:        msg.ID.Hex(),
		Sender:    *sender,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	}
	ev := events.NewMessage{
		ConversationID: conv.ID.Hex(),
		Message:        view,
		ParticipantIDs: append([]string(nil), conv.Participants...),
	}
	s.broadcast.BroadcastNewMessage(ev)
	if err := s.publisher.PublishNewMessage(ctx, ev); err != nil {
		// best effort: remote replicas miss the push, clients catch up on
		// their next fetch
		metrics.PublishErrors.Inc()
		s.log.Errorw("publish newMessage", "conversation", ev.ConversationID, "err", err)
	}
	metrics.MessagesSent.Inc()
	return &view, nil
}
