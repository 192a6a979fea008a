package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/model"
)

var journalCmd = &cobra.Command{
	Use:   "journal <year> [daytype] [text...]",
	Short: "Show or set the day-in-the-life narrative for a year",
	Long: "With just a year, prints all journal entries for that year.\n" +
		"With a day type and text, stores the narrative used to seed vision boards.\n" +
		"Day types: christmas, thanksgiving, summer, spring, birthday.",
	Args: cobra.MinimumNArgs(1),
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
}

func runJournal(_ *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}

	store, _ := openStore()

	if len(args) == 1 {
		plan, err := loadPlan(store)
		if err != nil {
			return err
		}
		found := false
		for _, dt := range model.DayTypes {
			if text := plan.JournalText(year, dt); text != "" {
				fmt.Printf("  [%s]\n  %s\n\n", dt, text)
				found = true
			}
		}
		if !found {
			fmt.Printf("  No journal entries for %d\n", year)
		}
		return nil
	}

	if !model.ValidDayType(args[1]) {
		return fmt.Errorf("unknown day type %q", args[1])
	}
	dt := model.DayType(args[1])

	if len(args) == 2 {
		plan, err := loadPlan(store)
		if err != nil {
			return err
		}
		if text := plan.JournalText(year, dt); text != "" {
			fmt.Println("  " + text)
		} else {
			fmt.Printf("  No %s entry for %d\n", dt, year)
		}
		return nil
	}

	text := strings.Join(args[2:], " ")
	if _, err := store.Mutate(func(p *model.Plan) error {
		p.SetJournalText(year, dt, text)
		return nil
	}); err != nil {
		return err
	}
	fmt.Printf("  Saved %s journal for %d\n", dt, year)
	return nil
}
