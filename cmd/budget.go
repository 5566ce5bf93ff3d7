package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/pipeline"
)

var flagMonth string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Check this month's savings against your plan",
	RunE:  runBudget,
}

func init() {
	budgetCmd.Flags().StringVar(&flagMonth, "month", "", "Month to check, YYYY-MM (default current)")
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	p, err := params()
	if err != nil {
		return err
	}

	at := time.Now()
	if flagMonth != "" {
		at, err = time.ParseInLocation("2006-01", flagMonth, time.Local)
		if err != nil {
			return fmt.Errorf("bad --month: %w", err)
		}
	}

	records, err := loadRecords()
	if err != nil {
		return err
	}
	month := pipeline.FilterByMonth(records, at)
	st := pipeline.MonthlySavingsStatus(p, month)

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET  " + at.Format("January 2006")))
	fmt.Println()

	rows := [][]string{
		{"Salary", cli.FormatMoney(p.Salary)},
		{"Spent", cli.FormatMoney(st.TotalSpend)},
		{"Saved (recorded)", cli.FormatMoney(st.ActualMonthlySavings)},
		{"Cash flow", cli.FormatDelta(st.CashFlowSurplus)},
		{"---"},
		{"Required saving", cli.FormatMoney(st.RequiredMonthlySavings)},
		{"Effective saving", cli.FormatMoney(st.EffectiveSavings)},
		{"Gap", cli.FormatDelta(st.SavingsGap)},
		{"Safe to spend", cli.FormatMoney(st.RemainingBudget)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Item", "Amount"},
		Rows:    rows,
	}))

	fmt.Printf("\n  Progress %s\n", cli.RenderProgressBar(st.ProgressPercent, 30))
	switch {
	case st.CashFlowSurplus < 0:
		fmt.Printf("  Spending ran %s past income; that came out of your savings.\n",
			cli.FormatMoney(-st.CashFlowSurplus))
	case st.SavingsGap > 0:
		fmt.Printf("  Save %s more to stay on plan.\n", cli.FormatMoney(st.SavingsGap))
	default:
		fmt.Println("  On plan for the month.")
	}
	fmt.Println()
	return nil
}
