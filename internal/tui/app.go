// Package tui provides the interactive Bubble Tea dashboard for futureline.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/futureline/internal/config"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/planstore"
	"github.com/theirongolddev/futureline/internal/timeline"
	"github.com/theirongolddev/futureline/internal/tui/components"
	"github.com/theirongolddev/futureline/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// PlanLoadedMsg is sent when the plan has been read from the store.
type PlanLoadedMsg struct {
	Plan     *model.Plan
	Err      error
	LoadTime time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	store *planstore.Store

	// Data
	plan     *model.Plan
	years    []model.YearSummary
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	timeState timelineState
	journState journalState
	settings  settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	// Scroll navigation
	scrollOverhead    = 10 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1
	minContentHeight  = 5
)

// loadConfigOrDefault loads config, returning defaults on error.
// This ensures the TUI can always start even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(store *planstore.Store) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		store:     store,
		needSetup: !config.Exists(),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadPlanCmd(a.store),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	a.years = a.years[:0]
	if a.plan == nil {
		return
	}
	for _, y := range timeline.Years(a.plan) {
		a.years = append(a.years, timeline.SummarizeYear(a.plan, y))
	}

	// Clamp cursors to the new bounds
	if a.timeState.cursor >= len(a.years) {
		a.timeState.cursor = len(a.years) - 1
	}
	if a.timeState.cursor < 0 {
		a.timeState.cursor = 0
	}
	a.timeState.detailScroll = 0

	if a.journState.cursor >= len(a.years) {
		a.journState.cursor = len(a.years) - 1
	}
	if a.journState.cursor < 0 {
		a.journState.cursor = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			switch a.activeTab {
			case tabTimeline:
				if a.timeState.cursor > 0 {
					a.timeState.cursor--
					a.timeState.detailScroll = 0
				}
			case tabJournal:
				if a.journState.cursor > 0 {
					a.journState.cursor--
				}
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			switch a.activeTab {
			case tabTimeline:
				if a.timeState.cursor < len(a.years)-1 {
					a.timeState.cursor++
					a.timeState.detailScroll = 0
				}
			case tabJournal:
				if a.journState.cursor < len(a.years)-1 {
					a.journState.cursor++
				}
			}
			return a, nil

		case tea.MouseButtonLeft:
			// Tab bar occupies the first row
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Settings tab has its own keybindings (text input)
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		// Timeline tab has its own keybindings
		if a.activeTab == tabTimeline {
			switch key {
			case "q":
				if !a.isCompactLayout() && a.timeState.viewMode == timeViewDetail {
					a.timeState.viewMode = timeViewSplit
					return a, nil
				}
				return a, tea.Quit
			case "enter", "f":
				if a.isCompactLayout() {
					return a, nil
				}
				if a.timeState.viewMode == timeViewSplit {
					a.timeState.viewMode = timeViewDetail
				}
				return a, nil
			case "esc":
				if a.timeState.viewMode == timeViewDetail {
					a.timeState.viewMode = timeViewSplit
				}
				return a, nil
			case "j", "down":
				if a.timeState.cursor < len(a.years)-1 {
					a.timeState.cursor++
					a.timeState.detailScroll = 0
				}
				return a, nil
			case "k", "up":
				if a.timeState.cursor > 0 {
					a.timeState.cursor--
					a.timeState.detailScroll = 0
				}
				return a, nil
			case "g":
				a.timeState.cursor = 0
				a.timeState.offset = 0
				a.timeState.detailScroll = 0
				return a, nil
			case "G":
				a.timeState.cursor = len(a.years) - 1
				if a.timeState.cursor < 0 {
					a.timeState.cursor = 0
				}
				a.timeState.detailScroll = 0
				return a, nil
			case "J":
				a.timeState.detailScroll++
				return a, nil
			case "K":
				if a.timeState.detailScroll > 0 {
					a.timeState.detailScroll--
				}
				return a, nil
			case "ctrl+d":
				halfPage := (a.height - scrollOverhead) / 2
				if halfPage < minHalfPageScroll {
					halfPage = minHalfPageScroll
				}
				a.timeState.detailScroll += halfPage
				return a, nil
			case "ctrl+u":
				halfPage := (a.height - scrollOverhead) / 2
				if halfPage < minHalfPageScroll {
					halfPage = minHalfPageScroll
				}
				a.timeState.detailScroll -= halfPage
				if a.timeState.detailScroll < 0 {
					a.timeState.detailScroll = 0
				}
				return a, nil
			}
		}

		// Journal tab navigation
		if a.activeTab == tabJournal {
			switch key {
			case "j", "down":
				if a.journState.cursor < len(a.years)-1 {
					a.journState.cursor++
				}
				return a, nil
			case "k", "up":
				if a.journState.cursor > 0 {
					a.journState.cursor--
				}
				return a, nil
			case "g":
				a.journState.cursor = 0
				return a, nil
			case "G":
				a.journState.cursor = len(a.years) - 1
				if a.journState.cursor < 0 {
					a.journState.cursor = 0
				}
				return a, nil
			}
		}

		// Settings tab navigation (non-editing mode)
		if a.activeTab == tabSettings {
			switch key {
			case "j", "down":
				if a.settings.cursor < settingsFieldCount-1 {
					a.settings.cursor++
				}
				return a, nil
			case "k", "up":
				if a.settings.cursor > 0 {
					a.settings.cursor--
				}
				return a, nil
			case "enter":
				return a.settingsStartEdit()
			}
		}

		if key == "q" {
			return a, tea.Quit
		}

		// Tab navigation
		switch key {
		case "t":
			a.activeTab = tabTimeline
		case "m":
			a.activeTab = tabMoney
		case "j":
			a.activeTab = tabJournal
		case "p":
			a.activeTab = tabPhotos
		case "x":
			a.activeTab = tabSettings
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		}
		return a, nil

	case PlanLoadedMsg:
		a.plan = msg.Plan
		a.loadErr = msg.Err
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.recompute()

		// Activate first-run setup after the plan loads
		if a.needSetup {
			a.setupForm = newSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}

		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		_ = a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  futureline needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ futureline"))
	b.WriteString(subtitleStyle.Render(" · Family Future Planning"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading plan..."))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"t m j p x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Navigate years"},
		{"g G", "First / Last year"},
		{"J K", "Scroll detail pane"},
		{"^d ^u", "Half-page scroll"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"Enter", "Expand / Confirm"},
		{"Esc", "Back / Cancel"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Render header (tab bar + plan summary pill)
	pillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	pillAccentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	pillStr := pillStyle.Render(" ")
	if a.plan != nil {
		endYear := a.plan.StartYear + a.plan.Horizon
		pillStr += pillAccentStyle.Render(fmt.Sprintf("%d–%d", a.plan.StartYear, endYear)) +
			pillStyle.Render(" │ ") +
			pillAccentStyle.Render(fmt.Sprintf("%d people", len(a.plan.People)))
		if city := timeline.CityIn(a.plan.CityPlan, model.ThisYear()); city != "" {
			pillStr += pillStyle.Render(" │ ") + pillAccentStyle.Render(city)
		}
	} else {
		pillStr += pillStyle.Render("no plan")
	}
	pillStr += pillStyle.Render(" ")

	pillRowStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(w)

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		pillRowStyle.Render(pillStr)

	// 2. Render status bar
	info := ""
	if a.plan != nil {
		info = fmt.Sprintf("Plan v%d · loaded in %dms", a.plan.Version, a.loadTime.Milliseconds())
	}
	statusBar := components.RenderStatusBar(w, info)

	// 3. Calculate content zone height
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Render tab content
	var content string
	switch a.activeTab {
	case tabTimeline:
		content = a.renderTimelineContent(cw, contentH)
	case tabMoney:
		content = a.renderMoneyTab(cw)
	case tabJournal:
		content = a.renderJournalTab(cw, contentH)
	case tabPhotos:
		content = a.renderPhotosTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Place content with background fill (handles centering when w > cw)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	// 8. Stack vertically
	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	// 9. Ensure the entire terminal is filled with background
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// Tab indices, matching components.Tabs order.
const (
	tabTimeline = iota
	tabMoney
	tabJournal
	tabPhotos
	tabSettings
)

// loadPlanCmd reads the plan from the store in a background goroutine.
func loadPlanCmd(store *planstore.Store) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		plan, err := store.LoadOrDemo()
		return PlanLoadedMsg{Plan: plan, Err: err, LoadTime: time.Since(start)}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
// This ensures gaps between cards and empty lines have proper background fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
