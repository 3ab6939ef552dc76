package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"todui/config"
)

// SessionPollInterval is how often login state is re-checked. Polling is a
// loss-tolerant substitute for a session-change event stream; the auth
// state is eventually consistent within one interval.
const SessionPollInterval = 30 * time.Second

// CheckSession asks the provider who is logged in right now.
func (m *Model) CheckSession() tea.Cmd {
	provider := m.Auth
	return func() tea.Msg {
		session, err := provider.GetSession(context.Background())
		if err != nil || session == nil {
			if err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[session] check failed: %v", err)
			}
			return SessionCheckedMsg{}
		}
		return SessionCheckedMsg{UserID: session.User.ID}
	}
}

// ScheduleSessionPoll arms the next session poll tick.
func ScheduleSessionPoll() tea.Cmd {
	return tea.Tick(SessionPollInterval, func(time.Time) tea.Msg {
		return SessionPollTickMsg{}
	})
}
