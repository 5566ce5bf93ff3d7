package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/config"
	"github.com/theirongolddev/tburn/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	p := cfg.Profile
	fmt.Println("  [Profile]")
	fmt.Printf("    Age:               %s\n", cli.FormatAge(p.Age))
	fmt.Printf("    Retire at:         %s\n", cli.FormatAge(p.TargetRetireAge))
	fmt.Printf("    Monthly salary:    %s\n", cli.FormatMoney(p.Salary))
	fmt.Printf("    Current savings:   %s\n", cli.FormatMoney(p.CurrentSavings))
	fmt.Printf("    Monthly savings:   %s\n", cli.FormatMoney(p.MonthlySavings))
	fmt.Printf("    Inflation:         %s\n", cli.FormatPercent(p.InflationRate))
	fmt.Printf("    Expected return:   %s\n", cli.FormatPercent(p.ROIRate))
	if p.TargetRetirementFund != nil {
		fmt.Printf("    Fund goal:         %s\n", cli.FormatMoney(*p.TargetRetirementFund))
	} else {
		fmt.Println("    Fund goal:         derived from plan")
	}
	if !p.CreatedAt.IsZero() {
		fmt.Printf("    Created:           %s\n", p.CreatedAt.Local().Format("2006-01-02"))
	}
	if !p.TrajectoryStart.IsZero() {
		fmt.Printf("    Trajectory from:   %s\n", p.TrajectoryStart.Local().Format("2006-01-02"))
	}
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Ledger:            %s\n", cfg.LedgerPath())
	if _, err := os.Stat(cfg.LedgerPath()); err != nil {
		fmt.Println("    Schema version:    not created yet")
	} else if v, err := store.SchemaVersion(cfg.LedgerPath()); err == nil {
		fmt.Printf("    Schema version:    %d\n", v)
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:           %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Poll interval:     %s\n", cfg.PollInterval())
	fmt.Printf("    Events buffer:     %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Log level:         %s\n", cfg.General.LogLevel)
	fmt.Printf("    Theme:             %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems:\n    %v\n\n", err)
	}
	fmt.Println("  Run `tburn setup` to reconfigure.")
	return nil
}
