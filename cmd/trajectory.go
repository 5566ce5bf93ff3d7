package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/pipeline"
)

var flagWeeks int

var trajectoryCmd = &cobra.Command{
	Use:   "trajectory",
	Short: "Compare cumulative savings with the weekly target",
	RunE:  runTrajectory,
}

func init() {
	trajectoryCmd.Flags().IntVarP(&flagWeeks, "weeks", "w", 12, "Weeks to show in the table")
	rootCmd.AddCommand(trajectoryCmd)
}

func runTrajectory(_ *cobra.Command, _ []string) error {
	p, err := params()
	if err != nil {
		return err
	}
	records, err := loadRecords()
	if err != nil {
		return err
	}

	tr := pipeline.Trajectory(p, records, time.Now())

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS TRAJECTORY"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Started", tr.StartDate.Format("2006-01-02")},
			{"Elapsed", fmt.Sprintf("%d weeks (%d months)", tr.WeeksElapsed, tr.MonthsElapsed)},
			{"Target so far", cli.FormatMoney(tr.TargetAccumulated)},
			{"Saved so far", cli.FormatMoney(tr.ActualAccumulated)},
			{"Deviation", cli.FormatDelta(tr.Deviation)},
			{"Unallocated", cli.FormatMoney(tr.UnallocatedFunds)},
		},
	}))

	deviations := make([]float64, len(tr.Points))
	for i, pt := range tr.Points {
		deviations[i] = pt.Actual - pt.Target
	}
	fmt.Printf("\n  Deviation  %s\n\n", cli.RenderSparkline(deviations))

	points := tr.Points
	if flagWeeks > 0 && len(points) > flagWeeks {
		points = points[len(points)-flagWeeks:]
	}
	rows := make([][]string, 0, len(points))
	for _, pt := range points {
		rows = append(rows, []string{
			fmt.Sprintf("%d  %s", pt.Week, pt.WeekStart.Format("Jan 02")),
			cli.FormatMoney(pt.Target),
			cli.FormatMoney(pt.Actual),
			cli.RenderSigned(cli.FormatDelta(pt.Actual-pt.Target), pt.Actual-pt.Target),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Weekly",
		Headers: []string{"Week", "Target", "Actual", "Deviation"},
		Rows:    rows,
	}))
	return nil
}
