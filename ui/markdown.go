package ui

import (
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"todui/config"
	appmodel "todui/model"
)

// renderMarkdownAsync renders assistant markdown off the update loop and
// delivers the result keyed by message id, so a slow render can never
// land on the wrong message after the list changed.
func (a AppView) renderMarkdownAsync(messageID, content string) tea.Cmd {
	width := a.chatWidth()
	return func() tea.Msg {
		startTime := time.Now()

		// Disable autolink so plain URLs stay plain text; terminal
		// emulators handle URL detection themselves.
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		if config.DebugLog != nil {
			config.DebugLog.Printf("[ui] markdown rendered for message %s in %v", messageID, time.Since(startTime))
		}

		return appmodel.MarkdownRenderedMsg{
			MessageID: messageID,
			Rendered:  strings.TrimRight(string(rendered), "\n"),
		}
	}
}
