package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"todui/config"
)

// ErrorDismissDelay is how long an error toast stays up before the UI
// clears it on the user's behalf.
const ErrorDismissDelay = 5 * time.Second

// BeginChatTurn runs the synchronous half of a chat turn: auth checks and
// appending the user message plus the assistant placeholder. Split from
// FinishChatTurn so the placeholder renders while the request is in flight.
func (m *Model) BeginChatTurn(content string) tea.Cmd {
	conv := m.Chat
	return func() tea.Msg {
		// No timeout: a single attempt that either resolves or fails.
		turn, ok := conv.Begin(context.Background(), content)
		if config.DebugLog != nil && ok {
			config.DebugLog.Printf("[chat] turn started, placeholder %s", turn.PlaceholderID)
		}
		return ChatTurnStartedMsg{Turn: turn, Started: ok}
	}
}

// FinishChatTurn performs the HTTP exchange and applies the outcome.
func (m *Model) FinishChatTurn(turn Turn) tea.Cmd {
	conv := m.Chat
	return func() tea.Msg {
		start := time.Now()
		conv.Finish(context.Background(), turn)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[chat] turn finished after %v", time.Since(start))
		}
		return ChatTurnDoneMsg{}
	}
}

// DismissErrorAfter arms the auto-dismiss timer for the error identified
// by seq. A newer error carries a newer seq, which restarts the clock and
// makes this tick a no-op.
func DismissErrorAfter(seq int) tea.Cmd {
	return tea.Tick(ErrorDismissDelay, func(time.Time) tea.Msg {
		return ErrorDismissTickMsg{Seq: seq}
	})
}
