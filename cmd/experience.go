package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/model"
)

var (
	flagExpLabel string
	flagExpYear  int
	flagExpEvery int
	flagExpStart int
)

var experienceCmd = &cobra.Command{
	Use:     "experience",
	Aliases: []string{"exp"},
	Short:   "List and edit planned experiences",
	RunE:    runExperienceList,
}

var experienceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a fixed (--year) or recurring (--every/--start) experience",
	RunE:  runExperienceAdd,
}

func init() {
	experienceAddCmd.Flags().StringVar(&flagExpLabel, "label", "", "Experience label (required)")
	experienceAddCmd.Flags().IntVar(&flagExpYear, "year", 0, "Year for a fixed experience")
	experienceAddCmd.Flags().IntVar(&flagExpEvery, "every", 0, "Recurrence in years")
	experienceAddCmd.Flags().IntVar(&flagExpStart, "start", 0, "First year of a recurring experience")
	_ = experienceAddCmd.MarkFlagRequired("label")

	experienceCmd.AddCommand(experienceAddCmd)
	rootCmd.AddCommand(experienceCmd)
}

func runExperienceList(_ *cobra.Command, _ []string) error {
	store, _ := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(plan.Experiences))
	for _, e := range plan.Experiences {
		when := fmt.Sprintf("%d", e.Year)
		if e.Kind == model.ExperienceRecurring {
			when = fmt.Sprintf("every %dy from %d", e.EveryNYears, e.StartYear)
		}
		rows = append(rows, []string{e.Label, e.Kind, when})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Experiences",
		Headers: []string{"Label", "Kind", "When"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runExperienceAdd(_ *cobra.Command, _ []string) error {
	var exp model.Experience
	switch {
	case flagExpYear != 0 && flagExpEvery == 0:
		exp = model.Experience{Kind: model.ExperienceFixed, Label: flagExpLabel, Year: flagExpYear}
	case flagExpEvery > 0 && flagExpStart != 0:
		exp = model.Experience{Kind: model.ExperienceRecurring, Label: flagExpLabel, EveryNYears: flagExpEvery, StartYear: flagExpStart}
	default:
		return fmt.Errorf("specify either --year, or --every with --start")
	}

	store, _ := openStore()
	if _, err := store.Mutate(func(p *model.Plan) error {
		p.Experiences = append(p.Experiences, exp)
		return nil
	}); err != nil {
		return err
	}

	fmt.Printf("  Added %s\n", exp.Label)
	return nil
}
