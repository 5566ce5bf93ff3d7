package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where your retirement age stands",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	p, err := params()
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	records, err := l.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("\n  No records yet.")
		fmt.Println("  Start with `tburn add save 100` or `tburn add spend 42.50`.")
		return nil
	}

	saved, err := l.Sum(model.Save)
	if err != nil {
		return err
	}
	spent, err := l.Sum(model.Spend)
	if err != nil {
		return err
	}

	gps := pipeline.Progress(p.TargetRetireAge, records)
	month := pipeline.MonthlySavingsStatus(p, pipeline.FilterByMonth(records, time.Now()))

	fmt.Println()
	fmt.Println(cli.RenderTitle("RETIREMENT GPS"))
	fmt.Println()
	fmt.Printf("  %s\n\n", renderStatusLine(gps))

	rows := [][]string{
		{"Target age", cli.FormatAge(p.TargetRetireAge)},
		{"Estimated age", cli.FormatAge(gps.EstimatedAge)},
		{"Difference", cli.FormatAgeDiff(gps.AgeDiff).String()},
		{"---"},
		{"Hours saved", cli.FormatTime(gps.TotalSavedHours).String()},
		{"Hours spent", cli.FormatTime(gps.TotalSpentHours).String()},
		{"Net impact", cli.FormatTime(gps.NetHoursImpact).String()},
		{"---"},
		{"Total saved", saved.StringFixed(2)},
		{"Total spent", spent.StringFixed(2)},
		{"Records", cli.FormatNumber(int64(len(records)))},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  This month  %s\n", cli.RenderProgressBar(month.ProgressPercent, 24))
	fmt.Printf("  Budget left %s\n\n", cli.RenderSigned(cli.FormatMoney(month.RemainingBudget), month.RemainingBudget))
	return nil
}

func renderStatusLine(gps model.ProgressStats) string {
	diff := cli.FormatAgeDiff(gps.AgeDiff)
	diff.Negative = false

	var (
		color lipgloss.Color
		text  string
	)
	switch gps.Status {
	case model.Ahead:
		color, text = cli.ColorGreen, fmt.Sprintf("AHEAD by %s", diff)
	case model.Behind:
		color, text = cli.ColorRed, fmt.Sprintf("BEHIND by %s", diff)
	default:
		color, text = cli.ColorAccent, "ON TRACK"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(text)
}
