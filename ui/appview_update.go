package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"todui/config"
	appmodel "todui/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if !a.ready {
			a.chatViewport = viewport.New(a.chatWidth(), a.chatHeight())
			a.ready = true
		} else {
			a.chatViewport.Width = a.chatWidth()
			a.chatViewport.Height = a.chatHeight()
		}
		a.chatInput.SetWidth(a.chatWidth())
		a.refreshChatViewport(false)
		return a, nil

	case spinner.TickMsg:
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		if a.dataModel.Chat.Snapshot().Loading {
			// Re-render so the placeholder spinner animates
			a.refreshChatViewport(false)
		}
		return a, cmd

	case appmodel.SessionPollTickMsg:
		return a, tea.Batch(a.dataModel.CheckSession(), appmodel.ScheduleSessionPoll())

	case appmodel.SessionCheckedMsg:
		wasLoggedIn := a.dataModel.LoggedIn()
		a.dataModel.UserID = msg.UserID
		a.dataModel.Chat.SetUserID(msg.UserID)
		if a.dataModel.LoggedIn() && (!wasLoggedIn || !a.dataModel.TasksLoaded) {
			cmds = append(cmds, a.dataModel.FetchTasks())
		}
		if !a.dataModel.LoggedIn() {
			a.dataModel.Tasks = nil
			a.dataModel.TasksLoaded = false
			a.taskCursor = 0
		}
		return a, tea.Batch(cmds...)

	case appmodel.ChatTurnStartedMsg:
		a.refreshChatViewport(true)
		if dismiss := a.armErrorDismiss(); dismiss != nil {
			cmds = append(cmds, dismiss)
		}
		if msg.Started {
			cmds = append(cmds, a.dataModel.FinishChatTurn(msg.Turn), a.loadingSpinner.Tick)
		}
		return a, tea.Batch(cmds...)

	case appmodel.ChatTurnDoneMsg:
		a.refreshChatViewport(true)
		cmds = append(cmds, a.renderPendingMarkdown()...)
		if dismiss := a.armErrorDismiss(); dismiss != nil {
			cmds = append(cmds, dismiss)
		}
		return a, tea.Batch(cmds...)

	case appmodel.ErrorDismissTickMsg:
		a.dataModel.Chat.ClearErrorIf(msg.Seq)
		return a, nil

	case appmodel.MarkdownRenderedMsg:
		a.dataModel.Chat.SetRendered(msg.MessageID, msg.Rendered)
		a.refreshChatViewport(a.chatViewport.AtBottom())
		return a, nil

	case appmodel.TasksLoadedMsg:
		if msg.Err != nil {
			a.statusLine = msg.Err.Error()
			return a, nil
		}
		a.dataModel.Tasks = msg.Tasks
		a.dataModel.TasksLoaded = true
		a.statusLine = ""
		if a.taskCursor >= len(a.dataModel.Tasks) {
			a.taskCursor = max(0, len(a.dataModel.Tasks)-1)
		}
		return a, nil

	case appmodel.TaskSavedMsg:
		if msg.Err != nil {
			a.statusLine = msg.Err.Error()
			return a, nil
		}
		a.statusLine = ""
		return a, a.dataModel.FetchTasks()

	case appmodel.TaskDeletedMsg:
		if msg.Err != nil {
			a.statusLine = msg.Err.Error()
			return a, nil
		}
		a.statusLine = ""
		return a, a.dataModel.FetchTasks()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	if a.showInsights {
		a.showInsights = false
		return a, nil
	}
	if a.showSearch {
		return a.handleSearchKey(msg)
	}
	if a.chatOpen {
		return a.handleChatKey(msg)
	}
	if a.taskAddMode {
		return a.handleTaskAddKey(msg)
	}
	return a.handleTaskKey(msg)
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	snap := a.dataModel.Chat.Snapshot()

	switch msg.String() {
	case "esc", "tab":
		// Closing never touches chat state; reopening shows the same thread
		a.chatOpen = false
		a.chatInput.Blur()
		return a, nil

	case "ctrl+l":
		a.dataModel.Chat.Clear()
		a.refreshChatViewport(false)
		return a, nil

	case "ctrl+y":
		for i := len(snap.Messages) - 1; i >= 0; i-- {
			m := snap.Messages[i]
			if m.Role == "assistant" && !m.Loading {
				clipboard.WriteAll(m.Content)
				break
			}
		}
		return a, nil

	case "ctrl+f":
		a.showSearch = true
		a.searchInput.SetValue("")
		a.searchResults = nil
		a.searchCursor = 0
		return a, tea.Batch(a.searchInput.Focus(), textinput.Blink)

	case "pgup":
		a.chatViewport.HalfViewUp()
		return a, nil

	case "pgdown":
		a.chatViewport.HalfViewDown()
		return a, nil

	case "enter":
		// The input is disabled while a turn is in flight or logged out;
		// the state core enforces the same rules regardless.
		if snap.Loading || !a.dataModel.LoggedIn() {
			return a, nil
		}
		content := a.chatInput.Value()
		if strings.TrimSpace(content) == "" {
			return a, nil
		}
		a.chatInput.Reset()
		if config.DebugLog != nil {
			config.DebugLog.Printf("[ui] submitting chat message (%d chars)", len(content))
		}
		return a, a.dataModel.BeginChatTurn(content)
	}

	if snap.Loading || !a.dataModel.LoggedIn() {
		return a, nil
	}
	a.chatInput, cmd = a.chatInput.Update(msg)
	return a, cmd
}

func (a AppView) handleTaskAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		a.taskAddMode = false
		a.taskAddInput.Reset()
		a.taskAddInput.Blur()
		return a, nil

	case "enter":
		title := strings.TrimSpace(a.taskAddInput.Value())
		a.taskAddMode = false
		a.taskAddInput.Reset()
		a.taskAddInput.Blur()
		if title == "" {
			return a, nil
		}
		return a, a.dataModel.CreateTask(title)
	}

	a.taskAddInput, cmd = a.taskAddInput.Update(msg)
	return a, cmd
}

func (a AppView) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "tab", "c":
		a.chatOpen = true
		a.refreshChatViewport(true)
		return a, tea.Batch(a.chatInput.Focus(), textarea.Blink)

	case "j", "down":
		if a.taskCursor < len(a.dataModel.Tasks)-1 {
			a.taskCursor++
		}
		return a, nil

	case "k", "up":
		if a.taskCursor > 0 {
			a.taskCursor--
		}
		return a, nil

	case "a":
		if !a.dataModel.LoggedIn() {
			a.statusLine = "Please log in to manage tasks."
			return a, nil
		}
		a.taskAddMode = true
		return a, tea.Batch(a.taskAddInput.Focus(), textinput.Blink)

	case "enter", " ":
		if a.taskCursor < len(a.dataModel.Tasks) {
			return a, a.dataModel.ToggleTask(a.dataModel.Tasks[a.taskCursor])
		}
		return a, nil

	case "d":
		if a.taskCursor < len(a.dataModel.Tasks) {
			return a, a.dataModel.DeleteTask(a.dataModel.Tasks[a.taskCursor].ID)
		}
		return a, nil

	case "r":
		return a, a.dataModel.FetchTasks()

	case "i":
		a.showInsights = true
		return a, nil

	case "?":
		a.showHelp = true
		return a, nil
	}

	return a, nil
}

// armErrorDismiss starts the 5s auto-dismiss timer when a new error has
// appeared since the last arming. The seq travels with the tick so a
// newer error restarts the clock instead of being wiped early.
func (a *AppView) armErrorDismiss() tea.Cmd {
	snap := a.dataModel.Chat.Snapshot()
	if snap.Error == "" || snap.ErrorSeq == a.lastErrSeq {
		return nil
	}
	a.lastErrSeq = snap.ErrorSeq
	return appmodel.DismissErrorAfter(snap.ErrorSeq)
}

// renderPendingMarkdown schedules markdown rendering for assistant
// messages that have content but no cached rendering yet.
func (a *AppView) renderPendingMarkdown() []tea.Cmd {
	var cmds []tea.Cmd
	for _, msg := range a.dataModel.Chat.Snapshot().Messages {
		if msg.Role == "assistant" && !msg.Loading && msg.Content != "" && msg.Rendered == "" {
			cmds = append(cmds, a.renderMarkdownAsync(msg.ID, msg.Content))
		}
	}
	return cmds
}
