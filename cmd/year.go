package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/timeline"
)

var yearCmd = &cobra.Command{
	Use:   "year <year>",
	Short: "Show the detailed projection for one year",
	Args:  cobra.ExactArgs(1),
	RunE:  runYear,
}

func init() {
	rootCmd.AddCommand(yearCmd)
}

func runYear(_ *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}

	store, _ := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}
	if year < plan.StartYear || year > plan.StartYear+plan.Horizon {
		return fmt.Errorf("year %d outside plan range %d-%d", year, plan.StartYear, plan.StartYear+plan.Horizon)
	}

	sum := timeline.SummarizeYear(plan, year)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("YEAR %d", year)))
	fmt.Println()

	if sum.City != "" {
		fmt.Printf("  City      %s\n", sum.City)
	}
	fmt.Printf("  Savings   %s\n", cli.SavingsText(cli.FormatMoney(sum.SavingsCumulative)))
	fmt.Println()

	fmt.Println("  People")
	for _, p := range plan.People {
		age := sum.Ages[p.ID]
		line := fmt.Sprintf("    %-12s %s", p.Name, cli.FormatAge(age))
		if p.Role == model.RoleChild && age >= 0 {
			line += cli.MutedText(fmt.Sprintf("  (%s)", timeline.ChildStage(age, p.SchoolStartAge)))
		}
		fmt.Println(line)
	}
	fmt.Println()

	if len(sum.Milestones) > 0 {
		fmt.Println("  Milestones")
		for _, m := range sum.Milestones {
			fmt.Printf("    %s\n", cli.MilestoneText(m))
		}
		fmt.Println()
	}

	if len(sum.Moments) > 0 {
		fmt.Println("  Moments")
		for _, m := range sum.Moments {
			fmt.Printf("    %s\n", m)
		}
		fmt.Println()
	}

	for _, dt := range model.DayTypes {
		if text := plan.JournalText(year, dt); text != "" {
			fmt.Printf("  Journal (%s)\n", dt)
			fmt.Printf("    %s\n\n", cli.Truncate(text, 200))
		}
	}

	return nil
}
