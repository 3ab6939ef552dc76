package model

import (
	"encoding/json"
	"fmt"
	"time"

	"todui/api"
)

// ChatMessage is a message in the chat panel. Exactly one message may have
// Loading set at any time: the assistant placeholder for the in-flight turn.
type ChatMessage struct {
	ID        string
	Role      string // "user" or "assistant"
	Content   string
	Rendered  string // Cached rendered markdown
	ToolCalls []api.ToolCall
	Timestamp time.Time
	Loading   bool
}

// ToolGlyph returns the single-character badge marker for a tool name.
func ToolGlyph(tool string) string {
	switch tool {
	case "add_task":
		return "+"
	case "list_tasks":
		return "#"
	case "complete_task":
		return "!"
	case "delete_task":
		return "x"
	case "update_task":
		return "~"
	default:
		return "?"
	}
}

// FormatToolResult builds the one-line preview shown under a tool badge.
// Tool results are opaque to the client; this only recognizes the shapes
// the backend's task tools are known to produce.
func FormatToolResult(result any) string {
	obj, ok := result.(map[string]any)
	if !ok {
		if result == nil {
			return ""
		}
		return fmt.Sprint(result)
	}

	if _, ok := obj["error"]; ok {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return "Error: " + msg
		}
		return "Error: Unknown error"
	}

	if taskID, ok := obj["task_id"]; ok {
		title, _ := obj["title"].(string)
		status, _ := obj["status"].(string)
		return fmt.Sprintf("Task #%s: %s (%s)", formatJSONNumber(taskID), title, status)
	}

	if tasks, ok := obj["tasks"].([]any); ok {
		if len(tasks) == 0 {
			return "No tasks found"
		}
		return fmt.Sprintf("%d task(s) found", len(tasks))
	}

	encoded, err := json.Marshal(obj)
	if err != nil {
		return fmt.Sprint(obj)
	}
	return string(encoded)
}

// formatJSONNumber prints a decoded JSON value as an id. json.Unmarshal
// delivers numbers as float64, which would otherwise render as "1e+00".
func formatJSONNumber(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}
