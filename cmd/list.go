package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/model"
)

var flagListDays int

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded savings and spending",
	RunE:    runList,
}

var endCmd = &cobra.Command{
	Use:   "end ID",
	Short: "Stop a recurring charge from counting toward your projection",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnd,
}

var rmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	listCmd.Flags().IntVarP(&flagListDays, "days", "n", 30, "Show records from the last N days (0 = all)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(endCmd)
	rootCmd.AddCommand(rmCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	var since time.Time
	if flagListDays > 0 {
		since = time.Now().AddDate(0, 0, -flagListDays)
	}
	records, err := l.ListBetween(since, time.Time{})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("\n  No records in range.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		rows = append(rows, []string{
			shortID(r.ID),
			humanize.Time(r.Timestamp),
			describeType(r),
			cli.FormatMoney(r.Amount),
			cli.FormatTime(r.TimeCost).String(),
			r.Note,
		})
	}

	title := "All records"
	if flagListDays > 0 {
		title = fmt.Sprintf("Last %dd", flagListDays)
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"ID", "When", "Type", "Amount", "Time", "Note"},
		Rows:    rows,
	}))
	return nil
}

func describeType(r model.Record) string {
	s := string(r.Type)
	if !r.IsRecurring {
		return s
	}
	s += " /mo"
	if r.MonthsDuration != nil {
		s += fmt.Sprintf(" x%g", *r.MonthsDuration)
	}
	if r.IsEnded() {
		s += " (ended)"
	}
	return s
}

func runEnd(_ *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	r, err := l.EndRecurring(args[0], time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("  Ended %s %s [%s]; it no longer moves your retirement age\n",
		r.Type, cli.FormatMoney(r.Amount), shortID(r.ID))
	return nil
}

func runRemove(_ *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	r, err := l.Get(args[0])
	if err != nil {
		return err
	}
	if err := l.Delete(r.ID); err != nil {
		return err
	}
	fmt.Printf("  Deleted %s %s [%s]\n", r.Type, cli.FormatMoney(r.Amount), shortID(r.ID))
	return nil
}
