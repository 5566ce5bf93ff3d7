package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/store"
)

var (
	flagRecurring bool
	flagMonths    float64
	flagNote      string
	flagDate      string
)

var addCmd = &cobra.Command{
	Use:       "add save|spend AMOUNT",
	Short:     "Record money saved or spent",
	Example:   "  tburn add spend 4.50 --note coffee\n  tburn add spend 15.99 --recurring --months 12",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(model.Save), string(model.Spend)},
	RunE:      runAdd,
}

var costCmd = &cobra.Command{
	Use:   "cost AMOUNT",
	Short: "Price an amount in working hours without recording it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCost,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, costCmd} {
		c.Flags().BoolVarP(&flagRecurring, "recurring", "r", false, "Monthly recurring charge")
		c.Flags().Float64Var(&flagMonths, "months", 0, "Months a recurring charge runs (implies --recurring)")
	}
	addCmd.Flags().StringVar(&flagNote, "note", "", "Free-form note")
	addCmd.Flags().StringVar(&flagDate, "date", "", "Record date, YYYY-MM-DD (default now)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(costCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	typ := model.RecordType(args[0])
	if !typ.Valid() {
		return fmt.Errorf("%w: %q", store.ErrUnknownType, args[0])
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	a, err := assumptions()
	if err != nil {
		return err
	}

	rec := model.Record{Type: typ, Amount: amount, Note: flagNote}
	rec.IsRecurring, rec.MonthsDuration, err = recurrence()
	if err != nil {
		return err
	}
	if flagDate != "" {
		rec.Timestamp, err = time.ParseInLocation(time.DateOnly, flagDate, time.Local)
		if err != nil {
			return fmt.Errorf("bad --date: %w", err)
		}
	}
	rec.TimeCost = a.TimeCost(finance.ChargeOf(rec))

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	rec, err = l.Add(rec)
	if err != nil {
		return err
	}
	log.Debug().Str("id", rec.ID).Float64("hours", rec.TimeCost).Msg("record added")

	verb := "costs you"
	if typ == model.Save {
		verb = "buys you"
	}
	fmt.Printf("  Added %s %s  [%s]\n", typ, cli.FormatMoney(amount), shortID(rec.ID))
	fmt.Printf("  That %s %s of work\n", verb, cli.RenderSpan(cli.FormatTime(rec.TimeCost)))
	return nil
}

func runCost(_ *cobra.Command, args []string) error {
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	a, err := assumptions()
	if err != nil {
		return err
	}

	c := finance.Charge{Amount: amount}
	c.Recurring, c.MonthsDuration, err = recurrence()
	if err != nil {
		return err
	}
	hours := a.TimeCost(c)

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Assumption", "Value"},
		Rows: [][]string{
			{"Hourly rate", cli.FormatMoney(a.HourlyRate)},
			{"Real return", cli.FormatPercent(a.RealRate * 100)},
			{"Years to retire", fmt.Sprintf("%.1f", a.YearsToRetire)},
		},
	}))
	fmt.Printf("\n  %s is %s of your life\n\n", cli.FormatMoney(amount), cli.RenderSpan(cli.FormatTime(hours)))
	return nil
}

func parseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", store.ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s", store.ErrInvalidAmount, s)
	}
	return d.Round(2).InexactFloat64(), nil
}

func recurrence() (bool, *float64, error) {
	if flagMonths < 0 {
		return false, nil, errors.New("--months must be positive")
	}
	if flagMonths > 0 {
		m := flagMonths
		return true, &m, nil
	}
	return flagRecurring, nil, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
