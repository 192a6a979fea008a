package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Plan file:       %s\n", config.PlanPath(cfg))
	fmt.Printf("    Default horizon: %d years\n", cfg.General.DefaultHorizon)
	fmt.Println()

	fmt.Println("  [Gemini]")
	if key := config.GetGeminiKey(cfg); key != "" {
		fmt.Printf("    API key:     %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key:     not configured")
	}
	fmt.Printf("    Text model:  %s\n", cfg.Gemini.TextModel)
	fmt.Printf("    Image model: %s (%s, %s)\n", cfg.Gemini.ImageModel, cfg.Gemini.ImageSize, cfg.Gemini.AspectRatio)
	fmt.Println()

	fmt.Println("  [OpenAI]")
	if key := config.GetOpenAIKey(cfg); key != "" {
		fmt.Printf("    API key:      %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key:      not configured (canned day texts)")
	}
	fmt.Printf("    Text model:   %s\n", cfg.OpenAI.TextModel)
	fmt.Printf("    Vision model: %s\n", cfg.OpenAI.VisionModel)
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Plan budget: %d KB, %d photos\n", cfg.Storage.MaxPlanKB, cfg.Storage.MaxPhotos)
	fmt.Printf("    Media cache: %s\n", config.MediaCachePath())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `futureline setup` to reconfigure.")
	return nil
}
