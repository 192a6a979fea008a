package components

import (
	"fmt"

	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// focusColor maps an attention share to a theme color.
func focusColor(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 0.5:
		return string(t.Green)
	case pct >= 0.3:
		return string(t.Yellow)
	case pct >= 0.15:
		return string(t.Orange)
	default:
		return string(t.Red)
	}
}

// FocusBar renders a labeled attention-share bar with percentage.
// Used for the per-decade work/family/health/friends split.
func FocusBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active

	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	bar := progress.New(
		progress.WithSolidFill(focusColor(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(focusColor(pct))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
