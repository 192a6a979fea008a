package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/model"
)

var (
	flagCityFrom int
	flagCityTo   int
)

var cityCmd = &cobra.Command{
	Use:   "city",
	Short: "List and edit city ranges",
	RunE:  runCityList,
}

var citySetCmd = &cobra.Command{
	Use:   "set <city>",
	Short: "Assign a city to a year range (later entries win on overlap)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCitySet,
}

func init() {
	citySetCmd.Flags().IntVar(&flagCityFrom, "from", 0, "First year (required)")
	citySetCmd.Flags().IntVar(&flagCityTo, "to", 0, "Last year; omit for open-ended")
	_ = citySetCmd.MarkFlagRequired("from")

	cityCmd.AddCommand(citySetCmd)
	rootCmd.AddCommand(cityCmd)
}

func runCityList(_ *cobra.Command, _ []string) error {
	store, _ := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(plan.CityPlan))
	for _, c := range plan.CityPlan {
		to := "open"
		if c.YearTo != 0 {
			to = fmt.Sprintf("%d", c.YearTo)
		}
		rows = append(rows, []string{c.City, fmt.Sprintf("%d", c.YearFrom), to})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "City plan",
		Headers: []string{"City", "From", "To"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runCitySet(_ *cobra.Command, args []string) error {
	if flagCityTo != 0 && flagCityTo < flagCityFrom {
		return fmt.Errorf("--to %d precedes --from %d", flagCityTo, flagCityFrom)
	}

	store, _ := openStore()
	if _, err := store.Mutate(func(p *model.Plan) error {
		p.CityPlan = append(p.CityPlan, model.CityRange{
			City:     args[0],
			YearFrom: flagCityFrom,
			YearTo:   flagCityTo,
		})
		return nil
	}); err != nil {
		return err
	}

	fmt.Printf("  %s from %d\n", args[0], flagCityFrom)
	return nil
}
