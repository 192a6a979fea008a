package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// SavingsChart renders cumulative savings per year as a bar chart with a
// dollar y-axis and year labels. Areas too small for axes degrade to a
// single sparkline row.
func SavingsChart(values []float64, years []string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	if width < 16 || height < 4 {
		return sparkRow(values, t.Green)
	}

	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	step := dollarStep(peak)
	maxTicks := height / 2
	if maxTicks < 2 {
		maxTicks = 2
	}
	for int(math.Ceil(peak/step)) > maxTicks {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	ticks := int(math.Round(ceiling / step))
	if ticks < 1 {
		ticks = 1
	}

	rowsPerTick := height / ticks
	if rowsPerTick < 2 {
		rowsPerTick = 2
	}
	rows := rowsPerTick * ticks

	axisW := len(dollarLabel(ceiling)) + 1
	if axisW < 5 {
		axisW = 5
	}
	plotW := width - axisW - 1
	if plotW < 6 {
		plotW = 6
	}

	// When the horizon has more years than fit at two columns each, keep
	// every kth year so bars stay readable.
	stride := 1
	for (len(values)+stride-1)/stride*3-1 > plotW {
		stride++
	}
	if stride > 1 {
		var sv []float64
		var sy []string
		for i := 0; i < len(values); i += stride {
			sv = append(sv, values[i])
			if len(years) == len(values) {
				sy = append(sy, years[i])
			}
		}
		values, years = sv, sy
	}

	n := len(values)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := (plotW - (n-1)*gap) / n
	if barW < 1 {
		barW = 1
	}
	if barW > 6 {
		barW = 6
	}
	plotLen := n*barW + (n-1)*gap

	partials := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	gapStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := rows; row >= 1; row-- {
		top := ceiling * float64(row) / float64(rows)
		bottom := ceiling * float64(row-1) / float64(rows)

		// Bars lighten toward the top.
		barColor := t.Green
		if float64(row)/float64(rows) > 0.75 {
			barColor = t.AccentBright
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		label := ""
		if row%rowsPerTick == 0 {
			label = dollarLabel(ceiling * float64(row) / float64(rows))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", axisW, label)))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(gapStyle.Render(" "))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				if idx < 1 {
					idx = 1
				}
				if idx > 8 {
					idx = 8
				}
				b.WriteString(barStyle.Render(strings.Repeat(string(partials[idx]), barW)))
			default:
				b.WriteString(gapStyle.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", axisW, "$0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", plotLen)))

	if len(years) == n {
		b.WriteString("\n")
		b.WriteString(gapStyle.Render(strings.Repeat(" ", axisW+1)))
		b.WriteString(axisStyle.Render(yearAxis(years, barW, gap, plotLen)))
	}
	return b.String()
}

// yearAxis lays year labels under their bars, dropping any that would
// collide. The final year is placed first, flush right, so it always
// survives.
func yearAxis(years []string, barW, gap, plotLen int) string {
	buf := make([]byte, plotLen)
	for i := range buf {
		buf[i] = ' '
	}
	n := len(years)
	finalStart := plotLen
	if n > 1 && len(years[n-1]) <= plotLen {
		finalStart = plotLen - len(years[n-1])
		copy(buf[finalStart:], years[n-1])
	}
	rest := n - 1
	if n == 1 {
		rest = 1
	}
	lastEnd := -2
	for i := 0; i < rest; i++ {
		pos := i * (barW + gap)
		end := pos + len(years[i])
		if pos > lastEnd+1 && end < finalStart {
			copy(buf[pos:end], years[i])
			lastEnd = end
		}
	}
	return strings.TrimRight(string(buf), " ")
}

func sparkRow(values []float64, color lipgloss.Color) string {
	t := theme.Active
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}
	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		buf.WriteRune(blocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// dollarStep picks a 1/2/5 tick interval targeting about five ticks.
func dollarStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func dollarLabel(v float64) string {
	format := func(scaled float64, suffix string) string {
		if scaled == math.Trunc(scaled) {
			return fmt.Sprintf("$%.0f%s", scaled, suffix)
		}
		return fmt.Sprintf("$%.1f%s", scaled, suffix)
	}
	switch {
	case v >= 1e9:
		return format(v/1e9, "B")
	case v >= 1e6:
		return format(v/1e6, "M")
	case v >= 1e3:
		return format(v/1e3, "k")
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
