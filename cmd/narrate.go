package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/pipeline"
)

var (
	flagNarrateYear int
	flagNarrateDay  string
	flagNarrateAll  bool
	flagNarrateSave bool
)

var narrateCmd = &cobra.Command{
	Use:   "narrate",
	Short: "Generate day-in-the-life vignettes for a year",
	Long: "Generates a warm single-paragraph vignette for one day type, or all five\n" +
		"with --all. Without an OpenAI key, canned texts are used so the command\n" +
		"always succeeds.",
	RunE: runNarrate,
}

func init() {
	narrateCmd.Flags().IntVar(&flagNarrateYear, "year", 0, "Plan year (default: current year)")
	narrateCmd.Flags().StringVar(&flagNarrateDay, "day", "christmas", "Day type")
	narrateCmd.Flags().BoolVar(&flagNarrateAll, "all", false, "Generate all five day types")
	narrateCmd.Flags().BoolVar(&flagNarrateSave, "save", false, "Store results in the plan journal")
	rootCmd.AddCommand(narrateCmd)
}

func runNarrate(_ *cobra.Command, _ []string) error {
	store, cfg := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	year := flagNarrateYear
	if year == 0 {
		year = model.ThisYear()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pipe, cleanup := newPipeline(ctx, cfg, nil)
	defer cleanup()

	yc := pipeline.ContextFor(plan, year)

	if flagNarrateAll {
		texts := pipe.AllDayTexts(ctx, year, yc)
		for _, dt := range model.DayTypes {
			fmt.Printf("  [%s]\n  %s\n\n", dt, texts[dt])
		}
		if flagNarrateSave {
			if _, err := store.Mutate(func(p *model.Plan) error {
				for dt, text := range texts {
					p.SetJournalText(year, dt, text)
				}
				return nil
			}); err != nil {
				return err
			}
			fmt.Printf("  Saved all journals for %d\n", year)
		}
		return nil
	}

	if !model.ValidDayType(flagNarrateDay) {
		return fmt.Errorf("unknown day type %q", flagNarrateDay)
	}
	dt := model.DayType(flagNarrateDay)

	text := pipe.DayText(ctx, year, dt, yc)
	fmt.Println()
	fmt.Println("  " + text)
	fmt.Println()

	if flagNarrateSave {
		if _, err := store.Mutate(func(p *model.Plan) error {
			p.SetJournalText(year, dt, text)
			return nil
		}); err != nil {
			return err
		}
		fmt.Printf("  Saved %s journal for %d\n", dt, year)
	}
	return nil
}
