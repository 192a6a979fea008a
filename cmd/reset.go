package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/config"
)

var (
	flagResetPlan  bool
	flagResetMedia bool
	flagResetYes   bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved plan and/or generated media",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetPlan, "plan-data", false, "Delete the saved plan file")
	resetCmd.Flags().BoolVar(&flagResetMedia, "media", false, "Delete the generated-image cache")
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	if !flagResetPlan && !flagResetMedia {
		flagResetPlan = true
		flagResetMedia = true
	}

	cfg, _ := config.Load()
	planPath := flagPlanPath
	if planPath == "" {
		planPath = config.PlanPath(cfg)
	}

	fmt.Println()
	if flagResetPlan {
		fmt.Printf("  Will delete plan:  %s\n", planPath)
	}
	if flagResetMedia {
		fmt.Printf("  Will delete media: %s\n", config.MediaCachePath())
	}
	fmt.Println()

	if !flagResetYes {
		fmt.Print("  Type 'yes' to continue: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("  Aborted")
			return nil
		}
	}

	if flagResetPlan {
		if err := os.Remove(planPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if flagResetMedia {
		if err := os.Remove(config.MediaCachePath()); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	fmt.Println("  Done")
	return nil
}
