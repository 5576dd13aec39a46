package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/model"
)

// ListConversations fetches every support conversation.
func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	var conversations []model.Conversation
	if err := c.do(ctx, http.MethodGet, "/chat/conversations", nil, nil, &conversations); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// CreateConversation opens a conversation with a client.
func (c *Client) CreateConversation(ctx context.Context, kabaUserID, subject string) (*model.Conversation, error) {
	if strings.TrimSpace(kabaUserID) == "" {
		return nil, fmt.Errorf("%w: client id is required", common.ErrInvalidInput)
	}
	body := struct {
		KabaUserID string `json:"kabaUserId"`
		Subject    string `json:"subject,omitempty"`
	}{KabaUserID: kabaUserID, Subject: subject}

	var conversation model.Conversation
	if err := c.do(ctx, http.MethodPost, "/chat/conversations", nil, body, &conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return &conversation, nil
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/chat/conversations/"+escape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete conversation %s: %w", id, err)
	}
	return nil
}

// ListMessages fetches the messages of one conversation.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	query := url.Values{"conversationId": {conversationID}}
	var messages []model.Message
	if err := c.do(ctx, http.MethodGet, "/chat/messages", query, nil, &messages); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// SendMessage posts an administrator message to a conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message is empty", common.ErrInvalidInput)
	}
	body := struct {
		ConversationID string           `json:"conversationId"`
		Content        string           `json:"content"`
		SenderType     model.SenderType `json:"senderType"`
	}{ConversationID: conversationID, Content: content, SenderType: model.SenderAdmin}

	var message model.Message
	if err := c.do(ctx, http.MethodPost, "/chat/messages", nil, body, &message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &message, nil
}

// MarkMessagesRead marks the client messages of a conversation as read.
func (c *Client) MarkMessagesRead(ctx context.Context, conversationID string) error {
	body := struct {
		ConversationID string `json:"conversationId"`
	}{ConversationID: conversationID}
	if err := c.do(ctx, http.MethodPut, "/chat/messages/read", nil, body, nil); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
