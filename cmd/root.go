// Package cmd implements the tburn CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/config"
	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/logging"
	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/store"
)

var (
	flagLedger  string
	flagVerbose bool
	flagJSONLog bool

	cfg config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tburn",
	Short: "See what your spending costs in hours of your life",
	Long: "Track savings and spending against a retirement goal. Every purchase is " +
		"priced in the working hours it would have grown into by retirement.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLedger, "ledger", "", "Ledger database path (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLog, "log-json", false, "Log as JSON lines")
	_ = rootCmd.PersistentFlags().MarkHidden("log-json")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if flagLedger != "" {
		cfg.Storage.Ledger = flagLedger
	}

	log = logging.New(logging.Options{
		Level:   cfg.General.LogLevel,
		Verbose: flagVerbose,
		JSON:    flagJSONLog,
	})
	log.Debug().Str("config", config.ConfigPath()).Str("ledger", cfg.LedgerPath()).Msg("loaded config")
	return nil
}

// params returns the engine parameters, refusing a profile the engine
// cannot use.
func params() (model.Params, error) {
	if err := cfg.Validate(); err != nil {
		return model.Params{}, fmt.Errorf("invalid config (run `tburn setup`):\n%w", err)
	}
	return cfg.Profile.Params(), nil
}

func assumptions() (finance.Assumptions, error) {
	p, err := params()
	if err != nil {
		return finance.Assumptions{}, err
	}
	return finance.AssumptionsFor(p), nil
}

func openLedger() (*store.Ledger, error) {
	l, err := store.Open(cfg.LedgerPath())
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	return l, nil
}

// loadRecords reads the whole ledger.
func loadRecords() ([]model.Record, error) {
	l, err := openLedger()
	if err != nil {
		return nil, err
	}
	defer func() { _ = l.Close() }()

	records, err := l.List()
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	log.Debug().Int("records", len(records)).Msg("ledger loaded")
	return records, nil
}
