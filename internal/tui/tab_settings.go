package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/config"
	"github.com/theirongolddev/futureline/internal/tui/components"
	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldGeminiKey = iota
	settingsFieldOpenAIKey
	settingsFieldTheme
	settingsFieldHorizon
	settingsFieldAnnualSavings
	settingsFieldGrowth
	settingsFieldMaxPhotos
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldGeminiKey:
		ti.Placeholder = "AIza..."
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		if existing := config.GetGeminiKey(cfg); existing != "" {
			ti.SetValue(existing)
		}
	case settingsFieldOpenAIKey:
		ti.Placeholder = "sk-..."
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		if existing := config.GetOpenAIKey(cfg); existing != "" {
			ti.SetValue(existing)
		}
	case settingsFieldTheme:
		ti.Placeholder = "flexoki-dark, catppuccin-mocha, tokyo-night, terminal"
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldHorizon:
		ti.Placeholder = "20 (years)"
		if a.plan != nil {
			ti.SetValue(strconv.Itoa(a.plan.Horizon))
		}
	case settingsFieldAnnualSavings:
		ti.Placeholder = "25000 (per year)"
		if a.plan != nil {
			ti.SetValue(fmt.Sprintf("%.0f", a.plan.Finance.AnnualSavings))
		}
	case settingsFieldGrowth:
		ti.Placeholder = "3.5 (percent per year, 0 to disable)"
		if a.plan != nil {
			ti.SetValue(fmt.Sprintf("%g", a.plan.Finance.GrowthPct))
		}
	case settingsFieldMaxPhotos:
		ti.Placeholder = "3"
		ti.SetValue(strconv.Itoa(cfg.Storage.MaxPhotos))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())
	planChanged := false

	switch a.settings.cursor {
	case settingsFieldGeminiKey:
		cfg.Gemini.APIKey = val
	case settingsFieldOpenAIKey:
		cfg.OpenAI.APIKey = val
	case settingsFieldTheme:
		found := false
		for _, t := range theme.All {
			if t.Name == val {
				found = true
				break
			}
		}
		if found {
			cfg.Appearance.Theme = val
			theme.SetActive(val)
		}
	case settingsFieldHorizon:
		if h, err := strconv.Atoi(val); err == nil && h > 0 && a.plan != nil {
			a.plan.Horizon = h
			planChanged = true
		}
	case settingsFieldAnnualSavings:
		if s, err := strconv.ParseFloat(val, 64); err == nil && s >= 0 && a.plan != nil {
			a.plan.Finance.AnnualSavings = s
			planChanged = true
		}
	case settingsFieldGrowth:
		if g, err := strconv.ParseFloat(val, 64); err == nil && g >= 0 && a.plan != nil {
			a.plan.Finance.GrowthPct = g
			planChanged = true
		}
	case settingsFieldMaxPhotos:
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.Storage.MaxPhotos = n
		}
	}

	if planChanged {
		_, a.settings.saveErr = a.store.Save(a.plan)
		a.recompute()
		return
	}
	a.settings.saveErr = config.Save(cfg)
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) > 12 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	return "****"
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	horizon := "-"
	annual := "-"
	growth := "-"
	if a.plan != nil {
		horizon = fmt.Sprintf("%d years", a.plan.Horizon)
		annual = cli.FormatMoney(a.plan.Finance.AnnualSavings)
		growth = fmt.Sprintf("%g%%", a.plan.Finance.GrowthPct)
	}

	fields := []field{
		{"Gemini API Key", maskKey(config.GetGeminiKey(cfg))},
		{"OpenAI API Key", maskKey(config.GetOpenAIKey(cfg))},
		{"Theme", cfg.Appearance.Theme},
		{"Horizon", horizon},
		{"Annual Savings", annual},
		{"Savings Growth", growth},
		{"Max Photos", strconv.Itoa(cfg.Storage.MaxPhotos)},
	}

	var formBody strings.Builder
	for i, f := range fields {
		// Show text input if currently editing this field
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			innerW := components.CardInnerWidth(cw)
			if padLen := innerW - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	// General info card
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Plan file:    ") + valueStyle.Render(config.PlanPath(cfg)) + "\n")
	infoBody.WriteString(labelStyle.Render("Media cache:  ") + valueStyle.Render(config.MediaCachePath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
