package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/cli"
	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/timeline"
)

var (
	flagFinanceAnnual float64
	flagFinanceGrowth float64
	flagFinanceStart  float64

	flagOneOffYear   int
	flagOneOffLabel  string
	flagOneOffAmount float64
)

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Show and edit the savings plan",
	RunE:  runFinanceShow,
}

var financeSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set annual savings, growth, or starting balance",
	RunE:  runFinanceSet,
}

var financeOneOffCmd = &cobra.Command{
	Use:   "oneoff",
	Short: "Add a one-time delta (negative amounts are costs)",
	RunE:  runFinanceOneOff,
}

func init() {
	financeSetCmd.Flags().Float64Var(&flagFinanceAnnual, "annual", -1, "Annual savings")
	financeSetCmd.Flags().Float64Var(&flagFinanceGrowth, "growth", -1, "Growth percent per year")
	financeSetCmd.Flags().Float64Var(&flagFinanceStart, "start", -1, "Starting cumulative balance")

	financeOneOffCmd.Flags().IntVar(&flagOneOffYear, "year", 0, "Year the delta lands (required)")
	financeOneOffCmd.Flags().StringVar(&flagOneOffLabel, "label", "", "Label (required)")
	financeOneOffCmd.Flags().Float64Var(&flagOneOffAmount, "amount", 0, "Signed amount (required)")
	_ = financeOneOffCmd.MarkFlagRequired("year")
	_ = financeOneOffCmd.MarkFlagRequired("label")
	_ = financeOneOffCmd.MarkFlagRequired("amount")

	financeCmd.AddCommand(financeSetCmd, financeOneOffCmd)
	rootCmd.AddCommand(financeCmd)
}

func runFinanceShow(_ *cobra.Command, _ []string) error {
	store, _ := openStore()
	plan, err := loadPlan(store)
	if err != nil {
		return err
	}

	f := plan.Finance
	fmt.Println()
	fmt.Printf("  Starting balance  %s\n", cli.FormatMoney(f.StartCumulative))
	fmt.Printf("  Annual savings    %s\n", cli.FormatMoney(f.AnnualSavings))
	fmt.Printf("  Growth            %.1f%%\n", f.GrowthPct)
	fmt.Println()

	if len(f.OneOffs) > 0 {
		rows := make([][]string, 0, len(f.OneOffs))
		for _, o := range f.OneOffs {
			rows = append(rows, []string{fmt.Sprintf("%d", o.Year), o.Label, cli.FormatMoney(o.Amount)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "One-offs",
			Headers: []string{"Year", "Label", "Amount"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	endYear := plan.StartYear + plan.Horizon
	final := timeline.CumulativeSavings(f, endYear, plan.StartYear)
	fmt.Printf("  Projected %d balance: %s\n", endYear, cli.SavingsText(cli.FormatMoney(final)))
	fmt.Println()
	return nil
}

func runFinanceSet(_ *cobra.Command, _ []string) error {
	store, _ := openStore()
	if _, err := store.Mutate(func(p *model.Plan) error {
		if flagFinanceAnnual >= 0 {
			p.Finance.AnnualSavings = flagFinanceAnnual
		}
		if flagFinanceGrowth >= 0 {
			p.Finance.GrowthPct = flagFinanceGrowth
		}
		if flagFinanceStart >= 0 {
			p.Finance.StartCumulative = flagFinanceStart
		}
		return nil
	}); err != nil {
		return err
	}
	fmt.Println("  Savings plan updated")
	return nil
}

func runFinanceOneOff(_ *cobra.Command, _ []string) error {
	store, _ := openStore()
	if _, err := store.Mutate(func(p *model.Plan) error {
		p.Finance.OneOffs = append(p.Finance.OneOffs, model.OneOff{
			ID:     model.NewID("oneoff"),
			Year:   flagOneOffYear,
			Label:  flagOneOffLabel,
			Amount: flagOneOffAmount,
		})
		return nil
	}); err != nil {
		return err
	}
	fmt.Printf("  %s in %d: %s\n", flagOneOffLabel, flagOneOffYear, cli.FormatMoney(flagOneOffAmount))
	return nil
}
