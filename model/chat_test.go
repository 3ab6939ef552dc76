package model

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"todui/api"
	"todui/auth"
)

type stubProvider struct {
	userID string
	token  string
	err    error
}

func (s *stubProvider) GetSession(_ context.Context) (*auth.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.userID == "" {
		return nil, nil
	}
	return &auth.Session{User: auth.User{ID: s.userID}}, nil
}

func (s *stubProvider) GetToken(_ context.Context) (string, error) {
	return s.token, s.err
}

type stubTransport struct {
	send func(ctx context.Context, userID string, req api.ChatRequest, token string) (*api.ChatResponse, error)
}

func (s *stubTransport) SendChatMessage(ctx context.Context, userID string, req api.ChatRequest, token string) (*api.ChatResponse, error) {
	return s.send(ctx, userID, req, token)
}

func newTestConversation(send func(ctx context.Context, userID string, req api.ChatRequest, token string) (*api.ChatResponse, error)) *Conversation {
	conv := NewConversation(
		&stubProvider{userID: "user-1", token: "tok1"},
		&stubTransport{send: send},
	)
	conv.SetUserID("user-1")
	return conv
}

func okResponse(convID int64, text string, toolCalls ...api.ToolCall) func(context.Context, string, api.ChatRequest, string) (*api.ChatResponse, error) {
	return func(context.Context, string, api.ChatRequest, string) (*api.ChatResponse, error) {
		return &api.ChatResponse{ConversationID: convID, Response: text, ToolCalls: toolCalls}, nil
	}
}

// The user message and the loading placeholder must both be visible while
// the transport call is still in flight.
func TestSendMessageAppendsBeforeTransportResolves(t *testing.T) {
	var conv *Conversation
	var inFlight ChatSnapshot

	conv = newTestConversation(func(context.Context, string, api.ChatRequest, string) (*api.ChatResponse, error) {
		inFlight = conv.Snapshot()
		return &api.ChatResponse{ConversationID: 1, Response: "hello"}, nil
	})

	conv.SendMessage(context.Background(), "  hi there  ")

	if len(inFlight.Messages) != 2 {
		t.Fatalf("in-flight message count = %d, want 2", len(inFlight.Messages))
	}
	if inFlight.Messages[0].Role != "user" || inFlight.Messages[0].Content != "hi there" {
		t.Errorf("first message = %+v, want trimmed user message", inFlight.Messages[0])
	}
	placeholder := inFlight.Messages[1]
	if placeholder.Role != "assistant" || !placeholder.Loading || placeholder.Content != "" {
		t.Errorf("second message = %+v, want empty loading assistant placeholder", placeholder)
	}
	if !inFlight.Loading {
		t.Error("Loading = false during transport call, want true")
	}
	if inFlight.Error != "" {
		t.Errorf("Error = %q during transport call, want empty", inFlight.Error)
	}
}

func TestSendMessageEmptyInputIsNoOp(t *testing.T) {
	inputs := []string{"", "   ", "\n\t  "}

	for _, input := range inputs {
		called := false
		conv := newTestConversation(func(context.Context, string, api.ChatRequest, string) (*api.ChatResponse, error) {
			called = true
			return nil, nil
		})

		before := conv.Snapshot()
		conv.SendMessage(context.Background(), input)
		after := conv.Snapshot()

		if called {
			t.Errorf("input %q reached the transport", input)
		}
		if !reflect.DeepEqual(before, after) {
			t.Errorf("input %q changed state: before=%+v after=%+v", input, before, after)
		}
	}
}

func TestSendMessageRequiresAuth(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		userID   string
	}{
		{name: "no user id", provider: &stubProvider{token: "tok1"}, userID: ""},
		{name: "no token", provider: &stubProvider{userID: "user-1"}, userID: "user-1"},
		{name: "token fetch error", provider: &stubProvider{userID: "user-1", err: errors.New("provider down")}, userID: "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			conv := NewConversation(tt.provider, &stubTransport{send: func(context.Context, string, api.ChatRequest, string) (*api.ChatResponse, error) {
				called = true
				return nil, nil
			}})
			conv.SetUserID(tt.userID)

			conv.SendMessage(context.Background(), "hello")
			snap := conv.Snapshot()

			if called {
				t.Error("transport was contacted despite missing auth")
			}
			if len(snap.Messages) != 0 {
				t.Errorf("message count = %d, want 0", len(snap.Messages))
			}
			if snap.Error != LoginRequiredMessage {
				t.Errorf("Error = %q, want %q", snap.Error, LoginRequiredMessage)
			}
			if snap.Loading {
				t.Error("Loading = true, want false")
			}
		})
	}
}

func TestSendMessageSuccess(t *testing.T) {
	toolCall := api.ToolCall{
		Tool:      "list_tasks",
		Arguments: map[string]any{},
		Result:    map[string]any{"tasks": []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}}},
	}
	conv := newTestConversation(okResponse(7, "You have 2 tasks", toolCall))

	conv.SendMessage(context.Background(), "Show my tasks")
	snap := conv.Snapshot()

	if len(snap.Messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(snap.Messages))
	}
	for _, msg := range snap.Messages {
		if msg.Loading {
			t.Errorf("message %s still loading after resolution", msg.ID)
		}
	}

	assistant := snap.Messages[1]
	if assistant.Role != "assistant" || assistant.Content != "You have 2 tasks" {
		t.Errorf("assistant message = %+v", assistant)
	}
	if !reflect.DeepEqual(assistant.ToolCalls, []api.ToolCall{toolCall}) {
		t.Errorf("ToolCalls = %+v, want the transport's list unchanged", assistant.ToolCalls)
	}

	if snap.ConversationID == nil || *snap.ConversationID != 7 {
		t.Errorf("ConversationID = %v, want 7", snap.ConversationID)
	}
	if snap.Error != "" {
		t.Errorf("Error = %q, want empty", snap.Error)
	}
	if snap.Loading {
		t.Error("Loading = true after resolution, want false")
	}
}

func TestSendMessageFailureKeepsUserMessage(t *testing.T) {
	conv := newTestConversation(func(context.Context, string, api.ChatRequest, string) (*api.ChatResponse, error) {
		return nil, &api.Error{StatusCode: 503, Message: "AI assistant is temporarily unavailable."}
	})

	conv.SendMessage(context.Background(), "Show my tasks")
	snap := conv.Snapshot()

	if len(snap.Messages) != 1 {
		t.Fatalf("message count = %d, want 1 (user message only)", len(snap.Messages))
	}
	if snap.Messages[0].Role != "user" || snap.Messages[0].Content != "Show my tasks" {
		t.Errorf("surviving message = %+v, want the user message", snap.Messages[0])
	}
	if snap.Error != "AI assistant is temporarily unavailable." {
		t.Errorf("Error = %q, want the service-unavailable string", snap.Error)
	}
	if snap.Loading {
		t.Error("Loading = true after failure, want false")
	}
	if snap.ConversationID != nil {
		t.Errorf("ConversationID = %v, want nil after failed first turn", snap.ConversationID)
	}
}

func TestSendMessageGenericFailure(t *testing.T) {
	conv := newTestConversation(func(context.Context, string, api.ChatRequest, string) (*api.ChatResponse, error) {
		return nil, errors.New("connection reset")
	})

	conv.SendMessage(context.Background(), "hello")
	snap := conv.Snapshot()

	if snap.Error != SendRetryMessage {
		t.Errorf("Error = %q, want %q", snap.Error, SendRetryMessage)
	}
}

func TestConversationIDFollowsBackend(t *testing.T) {
	var gotIDs []*int64
	next := int64(7)
	conv := newTestConversation(func(_ context.Context, _ string, req api.ChatRequest, _ string) (*api.ChatResponse, error) {
		gotIDs = append(gotIDs, req.ConversationID)
		resp := &api.ChatResponse{ConversationID: next, Response: "ok"}
		next = 9 // backend reassigns on the second turn
		return resp, nil
	})

	conv.SendMessage(context.Background(), "first")
	conv.SendMessage(context.Background(), "second")
	snap := conv.Snapshot()

	if gotIDs[0] != nil {
		t.Errorf("first request conversation id = %v, want nil", *gotIDs[0])
	}
	if gotIDs[1] == nil || *gotIDs[1] != 7 {
		t.Errorf("second request conversation id = %v, want 7", gotIDs[1])
	}
	if snap.ConversationID == nil || *snap.ConversationID != 9 {
		t.Errorf("final ConversationID = %v, want the backend's 9", snap.ConversationID)
	}
}

func TestClearResetsEverything(t *testing.T) {
	conv := newTestConversation(okResponse(7, "reply"))
	conv.SendMessage(context.Background(), "hello")

	conv.Clear()
	snap := conv.Snapshot()

	if len(snap.Messages) != 0 {
		t.Errorf("message count = %d, want 0", len(snap.Messages))
	}
	if snap.ConversationID != nil {
		t.Errorf("ConversationID = %v, want nil", snap.ConversationID)
	}
	if snap.Loading {
		t.Error("Loading = true, want false")
	}
	if snap.Error != "" {
		t.Errorf("Error = %q, want empty", snap.Error)
	}
}

func TestClearErrorOnlyTouchesError(t *testing.T) {
	conv := newTestConversation(func(context.Context, string, api.ChatRequest, string) (*api.ChatResponse, error) {
		return nil, &api.Error{StatusCode: 503, Message: "AI assistant is temporarily unavailable."}
	})
	conv.SendMessage(context.Background(), "hello")

	before := conv.Snapshot()
	conv.ClearError()
	after := conv.Snapshot()

	if after.Error != "" {
		t.Errorf("Error = %q, want empty", after.Error)
	}
	if !reflect.DeepEqual(before.Messages, after.Messages) {
		t.Error("messages changed")
	}
	if !reflect.DeepEqual(before.ConversationID, after.ConversationID) {
		t.Error("conversation id changed")
	}
	if before.Loading != after.Loading {
		t.Error("loading flag changed")
	}
}

func TestClearErrorIfIgnoresStaleSeq(t *testing.T) {
	fail := func(context.Context, string, api.ChatRequest, string) (*api.ChatResponse, error) {
		return nil, &api.Error{StatusCode: 500, Message: "first failure"}
	}
	conv := newTestConversation(fail)

	conv.SendMessage(context.Background(), "one")
	staleSeq := conv.Snapshot().ErrorSeq

	conv.SendMessage(context.Background(), "two")

	// Timer armed for the first error fires after the second replaced it.
	conv.ClearErrorIf(staleSeq)
	if snap := conv.Snapshot(); snap.Error == "" {
		t.Error("stale dismiss cleared the newer error")
	}

	conv.ClearErrorIf(conv.Snapshot().ErrorSeq)
	if snap := conv.Snapshot(); snap.Error != "" {
		t.Errorf("Error = %q after current dismiss, want empty", snap.Error)
	}
}

func TestSecondSendWhileBusyIsRejected(t *testing.T) {
	conv := newTestConversation(okResponse(1, "ok"))

	turn, ok := conv.Begin(context.Background(), "first")
	if !ok {
		t.Fatal("first Begin failed")
	}

	before := conv.Snapshot()
	if _, ok := conv.Begin(context.Background(), "second"); ok {
		t.Fatal("second Begin succeeded while a turn was in flight")
	}
	after := conv.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Errorf("busy rejection changed state: before=%+v after=%+v", before, after)
	}

	conv.Finish(context.Background(), turn)
	if snap := conv.Snapshot(); snap.Loading {
		t.Error("Loading = true after Finish")
	}
}

func TestClearDuringFlightDropsReply(t *testing.T) {
	conv := newTestConversation(okResponse(5, "late reply"))

	turn, ok := conv.Begin(context.Background(), "hello")
	if !ok {
		t.Fatal("Begin failed")
	}

	conv.Clear()
	conv.Finish(context.Background(), turn)
	snap := conv.Snapshot()

	if len(snap.Messages) != 0 {
		t.Errorf("message count = %d after clear, want 0 (late reply dropped)", len(snap.Messages))
	}
	if snap.ConversationID != nil {
		t.Errorf("ConversationID = %v, want nil", snap.ConversationID)
	}
	if snap.Loading {
		t.Error("Loading = true, want false")
	}
}

func TestLateReplyAfterClearLeavesNewTurnInFlight(t *testing.T) {
	conv := newTestConversation(okResponse(5, "reply"))

	turn1, ok := conv.Begin(context.Background(), "first")
	if !ok {
		t.Fatal("first Begin failed")
	}
	conv.Clear()

	turn2, ok := conv.Begin(context.Background(), "second")
	if !ok {
		t.Fatal("second Begin failed after clear")
	}

	// The first turn's late reply arrives while the second is in flight.
	conv.Finish(context.Background(), turn1)
	snap := conv.Snapshot()

	if !snap.Loading {
		t.Error("Loading = false while the second turn is still in flight")
	}
	if _, ok := conv.Begin(context.Background(), "third"); ok {
		t.Error("third Begin accepted while the second turn is in flight")
	}
	loadingCount := 0
	for _, msg := range snap.Messages {
		if msg.Loading {
			loadingCount++
		}
	}
	if loadingCount != 1 {
		t.Errorf("loading placeholder count = %d, want 1", loadingCount)
	}

	conv.Finish(context.Background(), turn2)
	snap = conv.Snapshot()
	if snap.Loading {
		t.Error("Loading = true after the second turn resolved")
	}
	if len(snap.Messages) != 2 {
		t.Errorf("message count = %d, want 2 (second turn only)", len(snap.Messages))
	}
}

func TestSetRendered(t *testing.T) {
	conv := newTestConversation(okResponse(1, "# heading"))
	conv.SendMessage(context.Background(), "hello")

	snap := conv.Snapshot()
	assistantID := snap.Messages[1].ID

	conv.SetRendered(assistantID, "rendered heading")
	snap = conv.Snapshot()
	if snap.Messages[1].Rendered != "rendered heading" {
		t.Errorf("Rendered = %q, want cached value", snap.Messages[1].Rendered)
	}
}
