package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"todui/api"
	appmodel "todui/model"
)

func (a AppView) View() string {
	if !a.ready {
		return "\n  Initializing..."
	}
	if a.showHelp {
		return a.renderHelpModal()
	}
	if a.showInsights {
		return a.renderInsightsModal()
	}
	if a.showSearch {
		return a.renderSearchModal()
	}
	if a.chatOpen {
		return a.renderChatView()
	}
	return a.renderTaskView()
}

func (a AppView) chatWidth() int {
	w := a.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (a AppView) chatHeight() int {
	// header + divider + error line + input + footer
	h := a.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

// refreshChatViewport rebuilds the transcript and follows the bottom when
// the message count changed, so new messages scroll into view without
// fighting a user who scrolled up to read history.
func (a *AppView) refreshChatViewport(gotoBottom bool) {
	if !a.ready {
		return
	}
	snap := a.dataModel.Chat.Snapshot()
	a.chatViewport.SetContent(a.buildChatContent(snap))
	if gotoBottom || len(snap.Messages) != a.lastMsgCount {
		a.chatViewport.GotoBottom()
	}
	a.lastMsgCount = len(snap.Messages)
}

func (a AppView) buildChatContent(snap appmodel.ChatSnapshot) string {
	width := a.chatWidth()

	if !a.dataModel.LoggedIn() {
		return "\n" + DimStyle.Render("  Please log in to chat with your AI assistant.")
	}

	if len(snap.Messages) == 0 {
		var b strings.Builder
		b.WriteString("\n")
		b.WriteString(AssistantStyle.Render("  Hi! I'm your task assistant."))
		b.WriteString("\n\n")
		b.WriteString(DimStyle.Render("  Try: \"Show my tasks\""))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render("       \"Add a task to buy groceries\""))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render("       \"Mark the milk task as done\""))
		return b.String()
	}

	var b strings.Builder
	for _, msg := range snap.Messages {
		switch {
		case msg.Role == "user":
			b.WriteString(UserStyle.Render("You"))
			b.WriteString(DimStyle.Render("  " + msg.Timestamp.Format("15:04")))
			b.WriteString("\n")
			b.WriteString(msg.Content)
			b.WriteString("\n\n")

		case msg.Loading:
			b.WriteString(a.loadingSpinner.View())
			b.WriteString(DimStyle.Render(" Thinking..."))
			b.WriteString("\n\n")

		default:
			b.WriteString(AssistantStyle.Render("Assistant"))
			b.WriteString(DimStyle.Render("  " + msg.Timestamp.Format("15:04")))
			b.WriteString("\n")
			if msg.Rendered != "" {
				b.WriteString(msg.Rendered)
			} else {
				b.WriteString(msg.Content)
			}
			b.WriteString("\n")
			for _, tc := range msg.ToolCalls {
				b.WriteString(formatToolBadge(tc, width))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatToolBadge(tc api.ToolCall, width int) string {
	badge := ToolBadgeStyle.Render("[" + appmodel.ToolGlyph(tc.Tool) + "] " + strings.ReplaceAll(tc.Tool, "_", " "))
	summary := appmodel.FormatToolResult(tc.Result)
	if summary == "" {
		return badge
	}
	line := badge + DimStyle.Render(" · "+summary)
	return runewidth.Truncate(line, width, "…")
}

func (a AppView) renderChatView() string {
	snap := a.dataModel.Chat.Snapshot()

	status := "Ready to help"
	if !a.dataModel.LoggedIn() {
		status = "Please log in"
	}
	header := "  " + TitleStyle.Render("AI Assistant") + DimStyle.Render("  "+status)
	divider := DimStyle.Render(strings.Repeat("─", max(a.width, 1)))

	errLine := ""
	if snap.Error != "" {
		errLine = "  " + ErrorStyle.Render("✗ "+snap.Error)
	}

	input := a.chatInput
	input.Placeholder = chatInputPlaceholder(a.dataModel.LoggedIn(), snap.Loading)

	footer := "  " + FormatFooter(
		"Enter", "Send",
		"Ctrl+L", "Clear",
		"Ctrl+F", "Search",
		"Ctrl+Y", "Copy",
		"Esc", "Back",
	)

	return strings.Join([]string{
		header,
		divider,
		a.chatViewport.View(),
		errLine,
		input.View(),
		footer,
	}, "\n")
}

func (a AppView) renderTaskView() string {
	var b strings.Builder

	total := len(a.dataModel.Tasks)
	done := a.dataModel.CompletedCount()
	b.WriteString("  " + TitleStyle.Render("todui"))
	b.WriteString(DimStyle.Render(fmt.Sprintf("  %d tasks · %d done", total, done)))
	if !a.dataModel.LoggedIn() {
		b.WriteString("  " + ErrorStyle.Render("not logged in"))
	}
	b.WriteString("\n")
	b.WriteString(DimStyle.Render(strings.Repeat("─", max(a.width, 1))))
	b.WriteString("\n")

	switch {
	case !a.dataModel.LoggedIn():
		b.WriteString("\n" + DimStyle.Render("  Please log in to manage tasks."))
		b.WriteString("\n")
	case total == 0 && a.dataModel.TasksLoaded:
		b.WriteString("\n" + DimStyle.Render("  No tasks yet. Press a to add one, or ask the assistant."))
		b.WriteString("\n")
	case total == 0:
		b.WriteString("\n" + DimStyle.Render("  Loading tasks..."))
		b.WriteString("\n")
	default:
		maxRows := max(a.height-7, 1)
		start := 0
		if a.taskCursor >= maxRows {
			start = a.taskCursor - maxRows + 1
		}
		for i := start; i < total && i < start+maxRows; i++ {
			b.WriteString(a.renderTaskRow(i))
			b.WriteString("\n")
		}
	}

	if a.taskAddMode {
		b.WriteString("\n  " + HighlightStyle.Render("New task: ") + a.taskAddInput.View())
		b.WriteString("\n")
	}

	if a.statusLine != "" {
		b.WriteString("\n  " + ErrorStyle.Render(a.statusLine))
		b.WriteString("\n")
	}

	b.WriteString("\n  " + FormatFooter(
		"j/k", "Navigate",
		"Enter", "Toggle",
		"a", "Add",
		"d", "Delete",
		"Tab", "Chat",
		"i", "Insights",
		"?", "Help",
		"q", "Quit",
	))
	return b.String()
}

func (a AppView) renderTaskRow(i int) string {
	task := a.dataModel.Tasks[i]

	cursor := "  "
	if i == a.taskCursor {
		cursor = SelectedStyle.Render("> ")
	}

	box := "[ ] "
	if task.Completed() {
		box = "[x] "
	}

	title := task.Title
	if task.Completed() {
		title = DoneTaskStyle.Render(title)
	} else if i == a.taskCursor {
		title = SelectedStyle.Render(title)
	}

	meta := ""
	if task.Priority != "" {
		meta += "  " + DimStyle.Render(task.Priority)
	}
	if task.DueDate != "" {
		meta += "  " + DimStyle.Render("due "+task.DueDate)
	}

	line := cursor + box + title + meta
	return runewidth.Truncate(line, max(a.width-2, 10), "…")
}

// renderModal lays out a bordered three-section modal centered on screen.
func (a AppView) renderModal(title, body, footer string, modalWidth int) string {
	if modalWidth > a.width-4 {
		modalWidth = a.width - 4
	}
	if modalWidth < 24 {
		modalWidth = 24
	}

	content := TitleStyle.Render(title) + "\n\n" + body + "\n\n" + StatusStyle.Render(footer)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(1, 2).
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}
