package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/timeline"
	"github.com/theirongolddev/futureline/internal/tui/components"
	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Timeline view modes. Split is the zero value, so it is the default.
const (
	timeViewSplit  = iota // Year list + detail side by side (default)
	timeViewDetail        // Full-screen detail
)

// timelineState holds the timeline tab state.
type timelineState struct {
	cursor       int
	viewMode     int
	offset       int // scroll offset for the year list
	detailScroll int
}

func (a App) renderTimelineContent(cw, h int) string {
	t := theme.Active

	if len(a.years) == 0 {
		return components.ContentCard("Timeline",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No plan loaded"), cw)
	}

	if a.timeState.viewMode == timeViewDetail && !a.isCompactLayout() {
		return a.renderYearDetail(cw, h)
	}
	return a.renderTimelineSplit(cw, h)
}

func (a App) renderTimelineSplit(cw, h int) string {
	t := theme.Active
	ts := a.timeState

	if ts.cursor >= len(a.years) {
		return ""
	}

	leftW := cw / 3
	if leftW < 30 {
		leftW = 30
	}
	rightW := cw - leftW

	// Left pane: condensed year list
	leftInner := components.CardInnerWidth(leftW)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	milestoneStyle := lipgloss.NewStyle().Foreground(t.Yellow)

	var leftBody strings.Builder
	visible := h - 6 // card border (2) + title (2) + slack (2)
	if visible < 5 {
		visible = 5
	}

	offset := ts.offset
	if ts.cursor < offset {
		offset = ts.cursor
	}
	if ts.cursor >= offset+visible {
		offset = ts.cursor - visible + 1
	}

	end := offset + visible
	if end > len(a.years) {
		end = len(a.years)
	}

	for i := offset; i < end; i++ {
		y := a.years[i]
		marker := " "
		if len(y.Milestones) > 0 {
			marker = "◆"
		}
		line := fmt.Sprintf("%d %s %s", y.Year, marker, cli.FormatMoney(y.SavingsCumulative))
		if len(line) > leftInner {
			line = truncStr(line, leftInner)
		}

		switch {
		case i == ts.cursor:
			leftBody.WriteString(selectedStyle.Render(line))
		case len(y.Milestones) > 0:
			leftBody.WriteString(milestoneStyle.Render(line))
		default:
			leftBody.WriteString(rowStyle.Render(line))
		}
		leftBody.WriteString("\n")
	}

	leftCard := components.ContentCard(
		fmt.Sprintf("Years [%d]", len(a.years)), leftBody.String(), leftW)

	// Right pane: full year detail
	sel := a.years[ts.cursor]
	rightBody := a.renderYearDetailBody(sel, rightW)
	rightCard := components.ContentCard(fmt.Sprintf("Year %d", sel.Year), rightBody, rightW)

	return components.CardRow([]string{leftCard, rightCard})
}

func (a App) renderYearDetail(cw, h int) string {
	ts := a.timeState
	if ts.cursor >= len(a.years) {
		return ""
	}
	sel := a.years[ts.cursor]
	body := a.renderYearDetailBody(sel, cw)
	return components.ContentCard(fmt.Sprintf("Year %d", sel.Year), body, cw)
}

// renderYearDetailBody generates the full detail content for one year.
// Used by both the split right pane and the full-screen detail view.
func (a App) renderYearDetailBody(sum model.YearSummary, w int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green)
	yellowStyle := lipgloss.NewStyle().Foreground(t.Yellow)

	var body strings.Builder

	city := sum.City
	if city == "" {
		city = "(no city planned)"
	}
	body.WriteString(mutedStyle.Render(city))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n\n")

	body.WriteString(fmt.Sprintf("%s %s\n\n",
		labelStyle.Render("Savings:"),
		greenStyle.Render(cli.FormatMoney(sum.SavingsCumulative))))

	// Family ages
	body.WriteString(headerStyle.Render("FAMILY"))
	body.WriteString("\n")
	for _, p := range a.plan.People {
		age, ok := sum.Ages[p.ID]
		if !ok {
			continue
		}
		extra := ""
		if p.Role == model.RoleChild && age >= 0 {
			if stage := timeline.ChildStage(age, p.SchoolStartAge); stage != "" {
				extra = "  " + mutedStyle.Render(stage)
			}
		}
		body.WriteString(fmt.Sprintf("%s %s%s\n",
			valueStyle.Render(fmt.Sprintf("%-12s", truncStr(p.Name, 12))),
			labelStyle.Render(cli.FormatAge(age)),
			extra))
	}

	if len(sum.Milestones) > 0 {
		body.WriteString("\n")
		body.WriteString(headerStyle.Render("MILESTONES"))
		body.WriteString("\n")
		for _, m := range sum.Milestones {
			body.WriteString(yellowStyle.Render("◆ " + m))
			body.WriteString("\n")
		}
	}

	if len(sum.Moments) > 0 {
		body.WriteString("\n")
		body.WriteString(headerStyle.Render("MOMENTS"))
		body.WriteString("\n")
		for _, m := range sum.Moments {
			body.WriteString(valueStyle.Render("• " + m))
			body.WriteString("\n")
		}
	}

	// Journal excerpts for this year
	if entries := a.plan.Journal[sum.Year]; len(entries) > 0 {
		body.WriteString("\n")
		body.WriteString(headerStyle.Render("JOURNAL"))
		body.WriteString("\n")
		for _, dt := range model.DayTypes {
			text, ok := entries[dt]
			if !ok || text == "" {
				continue
			}
			body.WriteString(mutedStyle.Render(string(dt) + ": "))
			body.WriteString(valueStyle.Render(truncStr(text, innerW-len(dt)-2)))
			body.WriteString("\n")
		}
	}

	if _, ok := a.plan.TimelineImages[sum.Year]; ok {
		body.WriteString("\n")
		body.WriteString(mutedStyle.Render("(timeline image generated)"))
		body.WriteString("\n")
	}

	body.WriteString("\n")
	body.WriteString(mutedStyle.Render("[Enter] expand  [j/k] navigate  [q] quit"))

	// Apply detail scroll
	out := body.String()
	if a.timeState.detailScroll > 0 {
		lines := strings.Split(out, "\n")
		skip := a.timeState.detailScroll
		if skip >= len(lines) {
			skip = len(lines) - 1
		}
		out = strings.Join(lines[skip:], "\n")
	}
	return out
}
