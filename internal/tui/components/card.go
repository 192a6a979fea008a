// Package components provides the shared widgets of the futureline dashboard.
package components

import (
	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Metric is one label/value cell in a metric row. Delta is an optional
// third line shown dimmed under the value.
type Metric struct {
	Label, Value, Delta string
}

// cardFrame is the rounded border every card shares. outerWidth includes
// the border columns.
func cardFrame(outerWidth int) lipgloss.Style {
	contentWidth := outerWidth - 2
	if contentWidth < 10 {
		contentWidth = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(contentWidth).
		Padding(0, 1)
}

// SplitWidths divides totalWidth into n widths that sum exactly to
// totalWidth, with the leftmost items absorbing the remainder.
func SplitWidths(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

// MetricRow renders metrics side by side as small cards filling totalWidth.
func MetricRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	deltaStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	widths := SplitWidths(totalWidth, len(metrics))
	rendered := make([]string, 0, len(metrics))
	for i, m := range metrics {
		content := labelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
		if m.Delta != "" {
			content += "\n" + deltaStyle.Render(m.Delta)
		}
		rendered = append(rendered, cardFrame(widths[i]).Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// ContentCard renders a bordered card with an optional bold title line.
func ContentCard(title, body string, outerWidth int) string {
	content := body
	if title != "" {
		titleStyle := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Bold(true)
		content = titleStyle.Render(title) + "\n" + body
	}
	return cardFrame(outerWidth).Render(content)
}

// CardRow joins pre-rendered cards horizontally, top-aligned.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth is the usable text width inside a ContentCard of the
// given outer width (border plus padding subtracted).
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4
	if w < 10 {
		w = 10
	}
	return w
}
