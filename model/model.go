package model

import (
	"todui/api"
	"todui/auth"
	"todui/config"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config *config.Config
	Auth   auth.Provider
	API    *api.Client

	// Chat state core (owns its own lock; see chat.go)
	Chat *Conversation

	// Task list state (only mutated from Update, no lock needed)
	Tasks       []api.Task
	TasksLoaded bool

	// Identity from the latest session check; empty when logged out
	UserID string

	// Application metadata
	Version string
	License string
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, provider auth.Provider, client *api.Client, version, license string) *Model {
	return &Model{
		Config:  cfg,
		Auth:    provider,
		API:     client,
		Chat:    NewConversation(provider, client),
		Version: version,
		License: license,
	}
}

// LoggedIn reports whether a user id is currently known.
func (m *Model) LoggedIn() bool {
	return m.UserID != ""
}

// CompletedCount returns how many loaded tasks are completed.
func (m *Model) CompletedCount() int {
	count := 0
	for _, task := range m.Tasks {
		if task.Completed() {
			count++
		}
	}
	return count
}
