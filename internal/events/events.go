package events

import "github.com/Akki1725/socially/internal/models"

// EventNewMessage is the single event type this service emits.
const EventNewMessage = "newMessage"

// NewMessage is the payload pushed to clients after a message is persisted.
// ParticipantIDs always holds the two participants of the conversation;
// clients use it together with the sender id for self-echo suppression.
type NewMessage struct {
	ConversationID string             `json:"conversationId"`
	Message        models.MessageView `json:"message"`
	ParticipantIDs []string           `json:"participantIds"`
}

// Envelope frames every payload written to a WebSocket client.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
