package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendChatMessage(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		json.NewEncoder(w).Encode(ChatResponse{
			ConversationID: 7,
			Response:       "You have 2 tasks",
			ToolCalls: []ToolCall{
				{Tool: "list_tasks", Arguments: map[string]any{}, Result: map[string]any{"tasks": []any{}}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.SendChatMessage(context.Background(), "user-1", ChatRequest{Message: "Show my tasks"}, "tok1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/user-1/chat" {
		t.Errorf("path = %q, want %q", gotPath, "/api/user-1/chat")
	}
	if gotAuth != "Bearer tok1" {
		t.Errorf("authorization = %q, want %q", gotAuth, "Bearer tok1")
	}
	if gotContentType != "application/json" {
		t.Errorf("content-type = %q, want application/json", gotContentType)
	}
	if gotBody.ConversationID != nil {
		t.Errorf("conversation_id = %v, want null on first turn", *gotBody.ConversationID)
	}
	if gotBody.Message != "Show my tasks" {
		t.Errorf("message = %q, want %q", gotBody.Message, "Show my tasks")
	}

	if resp.ConversationID != 7 {
		t.Errorf("ConversationID = %d, want 7", resp.ConversationID)
	}
	if resp.Response != "You have 2 tasks" {
		t.Errorf("Response = %q, want %q", resp.Response, "You have 2 tasks")
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Tool != "list_tasks" {
		t.Errorf("ToolCalls = %+v, want one list_tasks call", resp.ToolCalls)
	}
}

func TestSendChatMessageReusesConversationID(t *testing.T) {
	var gotBody ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(ChatResponse{ConversationID: 7, Response: "ok"})
	}))
	defer server.Close()

	convID := int64(7)
	client := NewClient(server.URL)
	if _, err := client.SendChatMessage(context.Background(), "user-1", ChatRequest{ConversationID: &convID, Message: "again"}, "tok1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody.ConversationID == nil || *gotBody.ConversationID != 7 {
		t.Errorf("conversation_id = %v, want 7", gotBody.ConversationID)
	}
}

func TestSendChatMessageErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"detail":"ignored"}`,
			wantStatus:  401,
			wantMessage: "Please log in to use the chat.",
		},
		{
			name:        "forbidden",
			status:      http.StatusForbidden,
			wantStatus:  403,
			wantMessage: "Access denied.",
		},
		{
			name:        "service unavailable",
			status:      http.StatusServiceUnavailable,
			wantStatus:  503,
			wantMessage: "AI assistant is temporarily unavailable.",
		},
		{
			name:        "other status with detail",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail":"Message too long"}`,
			wantStatus:  422,
			wantMessage: "Message too long",
		},
		{
			name:        "other status without detail",
			status:      http.StatusInternalServerError,
			body:        `{"error":"boom"}`,
			wantStatus:  500,
			wantMessage: "Failed to send message.",
		},
		{
			name:        "other status with malformed body",
			status:      http.StatusBadGateway,
			body:        "<html>bad gateway</html>",
			wantStatus:  502,
			wantMessage: "Failed to send message.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.SendChatMessage(context.Background(), "user-1", ChatRequest{Message: "hi"}, "tok1")
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T, want *api.Error", err)
			}
			if apiErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.wantStatus)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestSendChatMessageMalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.SendChatMessage(context.Background(), "user-1", ChatRequest{Message: "hi"}, "tok1")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *api.Error", err)
	}
	if apiErr.Message != "Failed to send message." {
		t.Errorf("Message = %q, want generic failure", apiErr.Message)
	}
}

func TestSendChatMessageConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(server.URL)
	_, err := client.SendChatMessage(context.Background(), "user-1", ChatRequest{Message: "hi"}, "tok1")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *api.Error", err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport-level failure", apiErr.StatusCode)
	}
}
