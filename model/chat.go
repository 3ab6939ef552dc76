package model

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"todui/api"
	"todui/auth"
	"todui/config"
)

// User-facing error strings surfaced through the conversation's error slot.
const (
	LoginRequiredMessage = "Please log in to use the chat."
	SendRetryMessage     = "Failed to send message. Please try again."
)

// ChatTransport is the single HTTP exchange a chat turn performs.
// *api.Client satisfies it; tests substitute a stub.
type ChatTransport interface {
	SendChatMessage(ctx context.Context, userID string, req api.ChatRequest, token string) (*api.ChatResponse, error)
}

// Conversation owns the chat state: the ordered message list, the backend
// conversation id, the in-flight flag, and the single user-facing error.
// Nothing is ever persisted; the state dies with the process.
//
// bubbletea commands run in goroutines, so the state is mutex-guarded and
// the UI reads immutable snapshots. A second send while a turn is in
// flight is rejected without any state change.
type Conversation struct {
	mu        sync.Mutex
	provider  auth.Provider
	transport ChatTransport

	userID         string
	messages       []ChatMessage
	conversationID *int64
	loading        bool
	errText        string
	errSeq         int
}

func NewConversation(provider auth.Provider, transport ChatTransport) *Conversation {
	return &Conversation{
		provider:  provider,
		transport: transport,
	}
}

// ChatSnapshot is an immutable copy of the conversation state for rendering.
type ChatSnapshot struct {
	Messages       []ChatMessage
	ConversationID *int64
	Loading        bool
	Error          string
	// ErrorSeq increments every time a new error replaces the slot, so
	// the UI can reset its auto-dismiss timer for the newer error.
	ErrorSeq int
}

func (c *Conversation) Snapshot() ChatSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]ChatMessage, len(c.messages))
	copy(messages, c.messages)

	var convID *int64
	if c.conversationID != nil {
		v := *c.conversationID
		convID = &v
	}

	return ChatSnapshot{
		Messages:       messages,
		ConversationID: convID,
		Loading:        c.loading,
		Error:          c.errText,
		ErrorSeq:       c.errSeq,
	}
}

// SetUserID records the identity reported by the latest session check.
func (c *Conversation) SetUserID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = id
}

func (c *Conversation) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// setErrorLocked replaces the error slot. Callers hold c.mu.
func (c *Conversation) setErrorLocked(msg string) {
	c.errText = msg
	c.errSeq++
}

// Turn carries everything Finish needs to complete a started chat turn.
type Turn struct {
	PlaceholderID string
	UserID        string
	Token         string
	Request       api.ChatRequest
}

// Begin runs the synchronous half of a chat turn: input and auth checks,
// then appending the user message and the assistant placeholder. Returns
// ok=false when nothing was started. Empty input and busy rejections make
// no state change at all; missing user or token set the error slot.
func (c *Conversation) Begin(ctx context.Context, content string) (Turn, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Turn{}, false
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return Turn{}, false
	}
	userID := c.userID
	if userID == "" {
		c.setErrorLocked(LoginRequiredMessage)
		c.mu.Unlock()
		return Turn{}, false
	}
	c.mu.Unlock()

	// Fetch a fresh token outside the lock; it may hit the network.
	// Catches tokens that expired between session polls.
	token, err := c.provider.GetToken(ctx)
	if err != nil || token == "" {
		c.mu.Lock()
		c.setErrorLocked(LoginRequiredMessage)
		c.mu.Unlock()
		return Turn{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return Turn{}, false
	}

	now := time.Now()
	userMessage := ChatMessage{
		ID:        uuid.New().String(),
		Role:      "user",
		Content:   content,
		Timestamp: now,
	}
	placeholder := ChatMessage{
		ID:        uuid.New().String(),
		Role:      "assistant",
		Timestamp: now,
		Loading:   true,
	}
	c.messages = append(c.messages, userMessage, placeholder)
	c.loading = true
	c.errText = ""

	var convID *int64
	if c.conversationID != nil {
		v := *c.conversationID
		convID = &v
	}

	return Turn{
		PlaceholderID: placeholder.ID,
		UserID:        userID,
		Token:         token,
		Request:       api.ChatRequest{ConversationID: convID, Message: content},
	}, true
}

// Finish performs the HTTP exchange for a started turn and applies the
// outcome. On success the placeholder becomes the assistant reply and the
// backend's conversation id is adopted. On failure the placeholder is
// removed, the user message stays (the input was registered even though no
// reply arrived), and the error slot is set.
func (c *Conversation) Finish(ctx context.Context, turn Turn) {
	resp, err := c.transport.SendChatMessage(ctx, turn.UserID, turn.Request, turn.Token)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.removePlaceholderLocked(turn.PlaceholderID) {
		// The chat was cleared while this turn was in flight; the reply
		// belongs to a discarded thread. The loading flag stays untouched,
		// since a turn started after the clear may own it now.
		if config.DebugLog != nil {
			config.DebugLog.Printf("[chat] dropping reply for abandoned turn %s", turn.PlaceholderID)
		}
		return
	}
	c.loading = false

	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			c.setErrorLocked(apiErr.Message)
		} else {
			c.setErrorLocked(SendRetryMessage)
		}
		return
	}

	c.messages = append(c.messages, ChatMessage{
		ID:        uuid.New().String(),
		Role:      "assistant",
		Content:   resp.Response,
		ToolCalls: resp.ToolCalls,
		Timestamp: time.Now(),
	})

	// The backend is authoritative for the conversation id; it may
	// continue the requested thread or allocate a new one.
	id := resp.ConversationID
	c.conversationID = &id
}

// SendMessage runs a full chat turn: Begin, then Finish if a turn started.
// The TUI splits the phases across two commands so the placeholder renders
// while the request is in flight; direct callers get the whole exchange.
func (c *Conversation) SendMessage(ctx context.Context, content string) {
	turn, ok := c.Begin(ctx, content)
	if !ok {
		return
	}
	c.Finish(ctx, turn)
}

// removePlaceholderLocked removes the placeholder by its id, reporting
// whether it was still present. Callers hold c.mu.
func (c *Conversation) removePlaceholderLocked(id string) bool {
	for i, msg := range c.messages {
		if msg.ID == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Clear resets the conversation to its initial state. Purely local: the
// backend is never told, so its copy of the thread survives unreferenced.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.conversationID = nil
	c.loading = false
	c.errText = ""
}

// ClearError clears only the error slot.
func (c *Conversation) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errText = ""
}

// ClearErrorIf clears the error slot only if it still holds the error the
// given sequence number was issued for. Auto-dismiss timers use this so an
// older timer cannot wipe a newer error.
func (c *Conversation) ClearErrorIf(seq int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.errSeq == seq {
		c.errText = ""
	}
}

// SetRendered caches the rendered markdown for a message.
func (c *Conversation) SetRendered(id, rendered string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i].Rendered = rendered
			return
		}
	}
}
