package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/tui/components"
	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// journalState holds the journal tab state.
type journalState struct {
	cursor int
}

func (a App) renderJournalTab(cw, h int) string {
	t := theme.Active

	if a.plan == nil || len(a.years) == 0 {
		return components.ContentCard("Journal",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No plan loaded"), cw)
	}

	js := a.journState
	if js.cursor >= len(a.years) {
		return ""
	}

	leftW := cw / 3
	if leftW < 26 {
		leftW = 26
	}
	rightW := cw - leftW

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	// Left pane: years with entry counts
	var leftBody strings.Builder
	visible := h - 6
	if visible < 5 {
		visible = 5
	}
	offset := 0
	if js.cursor >= visible {
		offset = js.cursor - visible + 1
	}
	end := offset + visible
	if end > len(a.years) {
		end = len(a.years)
	}

	for i := offset; i < end; i++ {
		year := a.years[i].Year
		count := 0
		for _, text := range a.plan.Journal[year] {
			if text != "" {
				count++
			}
		}
		line := fmt.Sprintf("%d  %d/%d entries", year, count, len(model.DayTypes))

		switch {
		case i == js.cursor:
			leftBody.WriteString(selectedStyle.Render(line))
		case count == 0:
			leftBody.WriteString(dimStyle.Render(line))
		default:
			leftBody.WriteString(rowStyle.Render(line))
		}
		leftBody.WriteString("\n")
	}

	leftCard := components.ContentCard("Journal", leftBody.String(), leftW)

	// Right pane: entries for the selected year, by day type
	selYear := a.years[js.cursor].Year
	rightInner := components.CardInnerWidth(rightW)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var rightBody strings.Builder
	entries := a.plan.Journal[selYear]
	any := false
	for _, dt := range model.DayTypes {
		text := entries[dt]
		if text == "" {
			continue
		}
		any = true
		rightBody.WriteString(headerStyle.Render(strings.ToUpper(string(dt))))
		rightBody.WriteString("\n")
		for _, line := range wrapText(text, rightInner) {
			rightBody.WriteString(valueStyle.Render(line))
			rightBody.WriteString("\n")
		}
		rightBody.WriteString("\n")
	}
	if !any {
		rightBody.WriteString(mutedStyle.Render("No journal entries for this year yet."))
		rightBody.WriteString("\n\n")
		rightBody.WriteString(mutedStyle.Render("Write one with `futureline journal " +
			fmt.Sprintf("%d", selYear) + " christmas <text>`"))
		rightBody.WriteString("\n")
		rightBody.WriteString(mutedStyle.Render("or generate one with `futureline narrate --year " +
			fmt.Sprintf("%d", selYear) + " --save`"))
	}

	rightCard := components.ContentCard(fmt.Sprintf("Year %d", selYear), rightBody.String(), rightW)

	return components.CardRow([]string{leftCard, rightCard})
}

// wrapText splits s into lines no wider than limit, breaking on spaces.
func wrapText(s string, limit int) []string {
	if limit < 10 {
		limit = 10
	}
	words := strings.Fields(s)
	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+1+len(w) > limit {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
