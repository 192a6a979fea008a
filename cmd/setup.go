package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to futureline!")
	fmt.Println()

	// 1. Gemini key
	fmt.Println("  1. Gemini API key")
	fmt.Println("     Powers vision boards and timeline images.")
	if existing := config.GetGeminiKey(cfg); existing != "" {
		fmt.Printf("     Current: %s\n", maskAPIKey(existing))
	}
	fmt.Print("     > ")
	geminiKey, _ := reader.ReadString('\n')
	if geminiKey = strings.TrimSpace(geminiKey); geminiKey != "" {
		cfg.Gemini.APIKey = geminiKey
	}
	fmt.Println()

	// 2. OpenAI key
	fmt.Println("  2. OpenAI API key")
	fmt.Println("     Powers day texts and photo analysis. Optional; canned texts are used without it.")
	if existing := config.GetOpenAIKey(cfg); existing != "" {
		fmt.Printf("     Current: %s\n", maskAPIKey(existing))
	}
	fmt.Print("     > ")
	openaiKey, _ := reader.ReadString('\n')
	if openaiKey = strings.TrimSpace(openaiKey); openaiKey != "" {
		cfg.OpenAI.APIKey = openaiKey
	}
	fmt.Println()

	// 3. Horizon
	fmt.Printf("  3. Default planning horizon in years [%d]\n", cfg.General.DefaultHorizon)
	fmt.Print("     > ")
	horizon, _ := reader.ReadString('\n')
	if h, err := strconv.Atoi(strings.TrimSpace(horizon)); err == nil && h > 0 {
		cfg.General.DefaultHorizon = h
	}
	fmt.Println()

	// 4. Theme
	fmt.Println("  4. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Tokyo Night")
	fmt.Println("     (4) Terminal (ANSI 16)")
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(themeChoice) {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `futureline setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
