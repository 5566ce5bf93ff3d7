package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/finance"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the retirement fund your plan projects to",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	p, err := params()
	if err != nil {
		return err
	}

	rate := finance.RealRate(p.InflationRate, p.ROIRate)
	target := finance.PlanTarget(p)
	years := finance.YearsToTarget(p.CurrentSavings, p.MonthlySavings, target, rate)

	reach := "unreachable at this rate"
	if !math.IsInf(years, 1) {
		reach = fmt.Sprintf("%.2f years (age %.1f)", years, p.Age+years)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RETIREMENT PLAN"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Item", "Value"},
		Rows: [][]string{
			{"Real return", cli.FormatPercent(rate * 100)},
			{"Years to retire", fmt.Sprintf("%.1f", p.YearsToRetire())},
			{"Target fund", cli.FormatMoney(target)},
			{"Reached in", reach},
			{"Required monthly", cli.FormatMoney(finance.PlanRequiredMonthly(p))},
			{"---"},
			{"Sustains (4% rule)", cli.FormatMoney(finance.FundToMonthly(target)) + " /mo"},
			{"Salary as a fund", cli.FormatMoney(finance.MonthlyToFund(p.Salary))},
		},
	}))

	rows := [][]string{}
	for _, y := range finance.Projection(p) {
		rows = append(rows, []string{
			fmt.Sprintf("%d", y.Year),
			cli.FormatAge(y.Age),
			cli.FormatMoney(y.Contributed),
			cli.FormatMoney(y.Fund),
		})
	}
	if len(rows) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Projection (today's money)",
			Headers: []string{"Year", "Age", "Contributed", "Fund"},
			Rows:    rows,
		}))
	}
	return nil
}
