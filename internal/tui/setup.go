package tui

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/futureline/internal/config"
	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run wizard answers.
type setupValues struct {
	geminiKey string
	openaiKey string
	horizon   string
	themeName string
}

// newSetupForm builds the first-run setup form.
func newSetupForm(vals *setupValues) *huh.Form {
	vals.horizon = strconv.Itoa(config.DefaultConfig().General.DefaultHorizon)
	vals.themeName = theme.Active.Name

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to futureline!").
				Description("Let's set up a few things. Keys are optional; everything\nexcept AI generation works without them."),

			huh.NewInput().
				Title("Gemini API key").
				Description("Used for image generation and scene planning.").
				Placeholder("AIza... (leave blank to skip)").
				EchoMode(huh.EchoModePassword).
				Value(&vals.geminiKey),

			huh.NewInput().
				Title("OpenAI API key").
				Description("Used for day-in-the-life narration and photo analysis.").
				Placeholder("sk-... (leave blank to skip)").
				EchoMode(huh.EchoModePassword).
				Value(&vals.openaiKey),

			huh.NewSelect[string]().
				Title("Planning horizon").
				Options(
					huh.NewOption("10 years", "10"),
					huh.NewOption("20 years", "20"),
					huh.NewOption("30 years", "30"),
				).
				Value(&vals.horizon),

			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.themeName),
		),
	)
}

func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()

	if k := strings.TrimSpace(a.setupVals.geminiKey); k != "" {
		cfg.Gemini.APIKey = k
	}
	if k := strings.TrimSpace(a.setupVals.openaiKey); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if h, err := strconv.Atoi(a.setupVals.horizon); err == nil && h > 0 {
		cfg.General.DefaultHorizon = h
	}
	if a.setupVals.themeName != "" {
		cfg.Appearance.Theme = a.setupVals.themeName
		theme.SetActive(a.setupVals.themeName)
	}

	return config.Save(cfg)
}
