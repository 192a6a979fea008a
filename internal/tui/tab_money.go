package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/tui/components"
	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderMoneyTab(cw int) string {
	t := theme.Active
	plan := a.plan
	var b strings.Builder

	if plan == nil || len(a.years) == 0 {
		return components.ContentCard("Money",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No plan loaded"), cw)
	}

	endSummary := a.years[len(a.years)-1]

	oneOffTotal := 0.0
	for _, o := range plan.Finance.OneOffs {
		oneOffTotal += o.Amount
	}

	growth := ""
	if plan.Finance.GrowthPct != 0 {
		growth = fmt.Sprintf("%.1f%%/yr", plan.Finance.GrowthPct)
	} else {
		growth = "none"
	}

	// Row 1: Metric cards
	cards := []components.Metric{
		{Label: fmt.Sprintf("Saved by %d", endSummary.Year), Value: cli.FormatMoney(endSummary.SavingsCumulative)},
		{Label: "Annual Savings", Value: cli.FormatMoney(plan.Finance.AnnualSavings), Delta: "growth " + growth},
		{Label: "Starting From", Value: cli.FormatMoney(plan.Finance.StartCumulative), Delta: fmt.Sprintf("in %d", plan.StartYear)},
		{Label: "One-offs", Value: cli.FormatMoney(oneOffTotal), Delta: fmt.Sprintf("%d planned", len(plan.Finance.OneOffs))},
	}
	b.WriteString(components.MetricRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Cumulative savings chart
	chartVals := make([]float64, len(a.years))
	chartLabels := make([]string, len(a.years))
	for i, y := range a.years {
		v := y.SavingsCumulative
		if v < 0 {
			v = 0
		}
		chartVals[i] = v
		chartLabels[i] = strconv.Itoa(y.Year)
	}
	chartInnerW := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Cumulative Savings (%d years)", len(a.years)),
		components.SavingsChart(chartVals, chartLabels, chartInnerW, 10),
		cw,
	))
	b.WriteString("\n")

	// Row 3: One-offs + Focus split
	halves := components.SplitWidths(cw, 2)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	redStyle := lipgloss.NewStyle().Foreground(t.Red)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green)

	var oneOffBody strings.Builder
	if len(plan.Finance.OneOffs) == 0 {
		oneOffBody.WriteString(labelStyle.Render("No one-off amounts planned"))
		oneOffBody.WriteString("\n")
	} else {
		oneOffs := make([]struct {
			year   int
			label  string
			amount float64
		}, 0, len(plan.Finance.OneOffs))
		for _, o := range plan.Finance.OneOffs {
			oneOffs = append(oneOffs, struct {
				year   int
				label  string
				amount float64
			}{o.Year, o.Label, o.Amount})
		}
		sort.Slice(oneOffs, func(i, j int) bool { return oneOffs[i].year < oneOffs[j].year })

		for _, o := range oneOffs {
			amtStyle := greenStyle
			if o.amount < 0 {
				amtStyle = redStyle
			}
			fmt.Fprintf(&oneOffBody, "%s %s %s\n",
				labelStyle.Render(strconv.Itoa(o.year)),
				valueStyle.Render(fmt.Sprintf("%-20s", truncStr(o.label, 20))),
				amtStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(o.amount))))
		}
	}

	var focusBody strings.Builder
	if len(plan.Focus) == 0 {
		focusBody.WriteString(labelStyle.Render("No focus mix configured"))
		focusBody.WriteString("\n")
	} else {
		barW := components.CardInnerWidth(halves[1]) - 22
		if barW < 10 {
			barW = 10
		}
		for _, f := range plan.Focus {
			focusBody.WriteString(labelStyle.Render(fmt.Sprintf("%ds", f.DecadeStart)))
			focusBody.WriteString("\n")
			focusBody.WriteString(components.FocusBar("  work", float64(f.Work)/100, 10, barW))
			focusBody.WriteString("\n")
			focusBody.WriteString(components.FocusBar("  family", float64(f.Family)/100, 10, barW))
			focusBody.WriteString("\n")
			focusBody.WriteString(components.FocusBar("  health", float64(f.Health)/100, 10, barW))
			focusBody.WriteString("\n")
			focusBody.WriteString(components.FocusBar("  friends", float64(f.Friends)/100, 10, barW))
			focusBody.WriteString("\n")
		}
	}

	oneOffCard := components.ContentCard("One-off Amounts", oneOffBody.String(), halves[0])
	focusCard := components.ContentCard("Focus Mix", focusBody.String(), halves[1])
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("One-off Amounts", oneOffBody.String(), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Focus Mix", focusBody.String(), cw))
	} else {
		b.WriteString(components.CardRow([]string{oneOffCard, focusCard}))
	}

	return b.String()
}
