package api

import (
	"context"
	"fmt"
	"net/http"

	"todui/config"
)

// ToolCall records one backend-side tool invocation, surfaced to the user
// for transparency. It is display data only and is never mutated.
type ToolCall struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Result    any            `json:"result"`
}

// ChatRequest is the body of a chat turn. ConversationID is nil on the
// first turn; afterwards it carries the id the backend assigned.
type ChatRequest struct {
	ConversationID *int64 `json:"conversation_id"`
	Message        string `json:"message"`
}

// ChatResponse is the assistant's reply for one turn.
type ChatResponse struct {
	ConversationID int64      `json:"conversation_id"`
	Response       string     `json:"response"`
	ToolCalls      []ToolCall `json:"tool_calls"`
}

// SendChatMessage performs exactly one exchange with the chat endpoint.
// Failures come back as *Error carrying a user-facing message; there are
// no retries and no timeout beyond what ctx imposes.
func (c *Client) SendChatMessage(ctx context.Context, userID string, chatReq ChatRequest, token string) (*ChatResponse, error) {
	path := fmt.Sprintf("/api/%s/chat", userID)

	req, err := c.newRequest(ctx, http.MethodPost, path, chatReq, token)
	if err != nil {
		return nil, &Error{StatusCode: 0, Message: sendFailedMessage}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[api] sending chat message for user %s (conversation=%v)", userID, chatReq.ConversationID)
	}

	var chatResp ChatResponse
	if err := c.doJSON(req, &chatResp, sendFailedMessage); err != nil {
		return nil, err
	}
	return &chatResp, nil
}
