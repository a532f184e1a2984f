package models

import "time"

// MessageView is a message resolved for clients, sender id replaced by the
// sender's public profile.
type MessageView struct {
	ID        string      `json:"id"`
	Sender    UserProfile `json:"sender"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
}

// LastMessageView is the compact last-message projection used by the
// conversation list.
type LastMessageView struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	SenderID  string    `json:"senderId"`
}

// ConversationSummary is one row of a user's conversation list. LastMessage
// is nil for a conversation that was opened but never written to.
type ConversationSummary struct {
	ID               string           `json:"id"`
	OtherParticipant UserProfile      `json:"otherParticipant"`
	LastMessage      *LastMessageView `json:"lastMessage"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ConversationDetail is the full thread as seen by one of its participants.
type ConversationDetail struct {
	ID               string        `json:"id"`
	OtherParticipant UserProfile   `json:"otherParticipant"`
	Messages         []MessageView `json:"messages"`
}
