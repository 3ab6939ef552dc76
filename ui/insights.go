package ui

import (
	"fmt"
	"strings"
)

// Category split and coaching lines are fixed placeholder values until the
// backend grows an analytics endpoint; only the task counts are live.
var insightCategories = []struct {
	Name    string
	Percent int
}{
	{"Work", 45},
	{"Personal", 30},
	{"Health", 15},
	{"Learning", 10},
}

var insightRecommendations = []string{
	"Set a daily target of 3 tasks to keep momentum.",
	"Your best completion window is in the morning.",
	"You're on a 5 day streak. Keep it going.",
}

func (a AppView) renderInsightsModal() string {
	total := len(a.dataModel.Tasks)
	done := a.dataModel.CompletedCount()
	rate := 0
	if total > 0 {
		rate = done * 100 / total
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Total Tasks        %s\n", HighlightStyle.Render(fmt.Sprintf("%d", total))))
	b.WriteString(fmt.Sprintf("Completion Rate    %s\n", HighlightStyle.Render(fmt.Sprintf("%d%%", rate))))
	b.WriteString(fmt.Sprintf("Productivity       %s\n", HighlightStyle.Render("85")))
	b.WriteString(fmt.Sprintf("Avg Completion     %s\n", HighlightStyle.Render("2.5h")))
	b.WriteString("\n")

	b.WriteString(TitleStyle.Render("By Category"))
	b.WriteString("\n")
	for _, cat := range insightCategories {
		bar := strings.Repeat("█", cat.Percent/5)
		b.WriteString(fmt.Sprintf("%-10s %s %d%%\n", cat.Name, AssistantStyle.Render(bar), cat.Percent))
	}
	b.WriteString("\n")

	b.WriteString(TitleStyle.Render("Recommendations"))
	b.WriteString("\n")
	for _, rec := range insightRecommendations {
		b.WriteString(DimStyle.Render("• " + rec))
		b.WriteString("\n")
	}

	footer := "Press any key to close"
	return a.renderModal("Insights", strings.TrimRight(b.String(), "\n"), footer, 56)
}
