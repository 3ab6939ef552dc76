package ui

import "strings"

func (a AppView) renderHelpModal() string {
	sections := []struct {
		title string
		keys  [][2]string
	}{
		{
			title: "Tasks",
			keys: [][2]string{
				{"j/k, ↑/↓", "Move cursor"},
				{"Enter/Space", "Toggle completion"},
				{"a", "Add task"},
				{"d", "Delete task"},
				{"r", "Refresh"},
				{"i", "Insights"},
			},
		},
		{
			title: "Chat",
			keys: [][2]string{
				{"Tab, c", "Open chat"},
				{"Enter", "Send message"},
				{"Ctrl+L", "Clear conversation"},
				{"Ctrl+F", "Search messages"},
				{"Ctrl+Y", "Copy last reply"},
				{"PgUp/PgDn", "Scroll"},
				{"Esc", "Back to tasks"},
			},
		},
		{
			title: "General",
			keys: [][2]string{
				{"?", "This help"},
				{"q, Ctrl+C", "Quit"},
			},
		},
	}

	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(TitleStyle.Render(section.title))
		b.WriteString("\n")
		for _, k := range section.keys {
			b.WriteString("  " + HighlightStyle.Render(padKey(k[0])) + " " + k[1])
			b.WriteString("\n")
		}
	}

	footer := "todui " + a.dataModel.Version + " · " + a.dataModel.License + " · Press any key to close"
	return a.renderModal("Keyboard Shortcuts", strings.TrimRight(b.String(), "\n"), footer, 48)
}

func padKey(key string) string {
	const width = 12
	if len(key) >= width {
		return key
	}
	return key + strings.Repeat(" ", width-len(key))
}
