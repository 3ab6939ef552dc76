package model

import "todui/api"

// SessionCheckedMsg carries the result of a session check. An empty UserID
// means logged out (or the provider failed; both render the same way).
type SessionCheckedMsg struct {
	UserID string
}

// SessionPollTickMsg fires every session poll interval.
type SessionPollTickMsg struct{}

// ChatTurnStartedMsg reports the synchronous half of a chat turn. Started
// is false when nothing was sent (empty input, busy, or auth failure; the
// conversation's error slot says which).
type ChatTurnStartedMsg struct {
	Turn    Turn
	Started bool
}

// ChatTurnDoneMsg fires when the transport half of a turn has been applied.
type ChatTurnDoneMsg struct{}

// ErrorDismissTickMsg fires when a shown error's auto-dismiss delay ends.
// Seq identifies which error the timer was armed for.
type ErrorDismissTickMsg struct {
	Seq int
}

type TasksLoadedMsg struct {
	Tasks []api.Task
	Err   error
}

type TaskSavedMsg struct {
	Task *api.Task
	Err  error
}

type TaskDeletedMsg struct {
	TaskID string
	Err    error
}

// MarkdownRenderedMsg carries an asynchronously rendered message body.
type MarkdownRenderedMsg struct {
	MessageID string
	Rendered  string
}
