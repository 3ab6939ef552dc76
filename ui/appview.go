package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "todui/model"
)

// AppView is the bubbletea model: a task list as the main view, with the
// chat panel, insights, search, and help layered on top as toggles.
type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// Chat panel (the floating widget)
	chatOpen       bool
	chatViewport   viewport.Model
	chatInput      textarea.Model
	loadingSpinner spinner.Model
	lastErrSeq     int // newest error seq a dismiss timer was armed for
	lastMsgCount   int // message count at last viewport refresh

	// Task list
	taskCursor   int
	taskAddMode  bool
	taskAddInput textinput.Model
	statusLine   string

	// Search overlay
	showSearch    bool
	searchInput   textinput.Model
	searchResults []searchMatch
	searchCursor  int

	// Other overlays
	showInsights bool
	showHelp     bool

	// Window state
	width  int
	height int
	ready  bool
}

func NewAppView(dataModel *appmodel.Model) AppView {
	chatInput := textarea.New()
	chatInput.Placeholder = chatInputPlaceholder(false, false)
	chatInput.SetHeight(2)
	chatInput.CharLimit = 0
	chatInput.ShowLineNumbers = false

	taskAddInput := textinput.New()
	taskAddInput.Placeholder = "Task title..."

	searchInput := textinput.New()
	searchInput.Placeholder = "Type to search messages..."

	loadingSpinner := spinner.New()
	loadingSpinner.Spinner = spinner.Dot
	loadingSpinner.Style = lipgloss.NewStyle().Foreground(accentColor)

	return AppView{
		dataModel:      dataModel,
		chatInput:      chatInput,
		taskAddInput:   taskAddInput,
		searchInput:    searchInput,
		loadingSpinner: loadingSpinner,
	}
}

func chatInputPlaceholder(loggedIn, busy bool) string {
	if !loggedIn {
		return "Log in to chat..."
	}
	if busy {
		return "Thinking..."
	}
	return "Ask me anything about your tasks..."
}

func (a AppView) Init() tea.Cmd {
	// Session fetched once at startup, then re-polled on an interval.
	return tea.Batch(
		a.dataModel.CheckSession(),
		appmodel.ScheduleSessionPoll(),
		a.loadingSpinner.Tick,
	)
}
