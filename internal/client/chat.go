// ABOUTME: AI assistant chat operation for the taskdeck API client
// ABOUTME: The assistant mutates tasks server-side, so chat is a write path

package client

import (
	"context"
	"net/http"
	"strings"
)

// ChatResponse is the assistant's reply. ConversationID is echoed back on
// the next turn to keep context.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Chat sends a message to the AI assistant. Pass an empty conversationID to
// start a new conversation. Callers should refresh the task list afterwards
// since the assistant may have created, updated, or deleted tasks.
func (c *Client) Chat(ctx context.Context, message, conversationID string) (*ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Field: "message", Message: "message is required"}
	}

	var resp ChatResponse
	req := chatRequest{Message: message, ConversationID: conversationID}
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}
