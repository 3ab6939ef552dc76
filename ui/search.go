package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	appmodel "todui/model"
)

// searchMatch is one transcript hit in the message search overlay.
type searchMatch struct {
	Role      string
	Preview   string
	Timestamp time.Time
}

func (a AppView) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc", "enter":
		a.showSearch = false
		a.searchInput.Blur()
		return a, nil

	case "down", "ctrl+n":
		if a.searchCursor < len(a.searchResults)-1 {
			a.searchCursor++
		}
		return a, nil

	case "up", "ctrl+p":
		if a.searchCursor > 0 {
			a.searchCursor--
		}
		return a, nil
	}

	a.searchInput, cmd = a.searchInput.Update(msg)
	a.filterSearchResults()
	return a, cmd
}

func (a *AppView) filterSearchResults() {
	snap := a.dataModel.Chat.Snapshot()

	query := a.searchInput.Value()
	if query == "" {
		a.searchResults = nil
		a.searchCursor = 0
		return
	}

	var candidates []appmodel.ChatMessage
	for _, msg := range snap.Messages {
		if !msg.Loading && msg.Content != "" {
			candidates = append(candidates, msg)
		}
	}

	targets := make([]string, len(candidates))
	for i, msg := range candidates {
		targets[i] = msg.Content
	}

	matches := fuzzy.Find(query, targets)
	a.searchResults = make([]searchMatch, len(matches))
	for i, match := range matches {
		msg := candidates[match.Index]
		a.searchResults[i] = searchMatch{
			Role:      msg.Role,
			Preview:   strings.ReplaceAll(msg.Content, "\n", " "),
			Timestamp: msg.Timestamp,
		}
	}
	if a.searchCursor >= len(a.searchResults) {
		a.searchCursor = max(0, len(a.searchResults)-1)
	}
}

func (a AppView) renderSearchModal() string {
	modalWidth := min(a.width-8, 70)

	var b strings.Builder
	b.WriteString(a.searchInput.View())
	b.WriteString("\n")

	if a.searchInput.Value() == "" {
		b.WriteString(DimStyle.Render("Type to search the conversation."))
	} else if len(a.searchResults) == 0 {
		b.WriteString(DimStyle.Render("No matches."))
	}

	maxResults := min(len(a.searchResults), 8)
	for i := 0; i < maxResults; i++ {
		res := a.searchResults[i]

		cursor := "  "
		if i == a.searchCursor {
			cursor = SelectedStyle.Render("> ")
		}

		who := AssistantStyle.Render("Assistant")
		if res.Role == "user" {
			who = UserStyle.Render("You")
		}

		line := fmt.Sprintf("%s%s %s %s",
			cursor,
			DimStyle.Render(res.Timestamp.Format("15:04")),
			who,
			res.Preview,
		)
		b.WriteString(runewidth.Truncate(line, modalWidth-4, "…"))
		b.WriteString("\n")
	}
	if len(a.searchResults) > maxResults {
		b.WriteString(DimStyle.Render(fmt.Sprintf("…and %d more", len(a.searchResults)-maxResults)))
	}

	footer := FormatFooter("↑/↓", "Navigate", "Esc", "Close")
	return a.renderModal("Search Messages", strings.TrimRight(b.String(), "\n"), footer, modalWidth)
}
