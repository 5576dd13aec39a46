package model

import "time"

// SenderType identifies who wrote a chat message.
type SenderType string

const (
	// SenderAdmin is a message written from the dashboard.
	SenderAdmin SenderType = "ADMIN"
	// SenderUser is a message written by a KABA client.
	SenderUser SenderType = "USER"
)

// Conversation is a support thread with one client.
type Conversation struct {
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	ID            string     `json:"id"`
	KabaUserID    string     `json:"kabaUserId"`
	Subject       string     `json:"subject"`
	UnreadCount   int        `json:"unreadCount"`
}

// Message is one entry of a conversation.
type Message struct {
	CreatedAt      time.Time  `json:"createdAt"`
	ID             string     `json:"id"`
	ConversationID string     `json:"conversationId"`
	SenderType     SenderType `json:"senderType"`
	Content        string     `json:"content"`
	Read           bool       `json:"read"`
}
