package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/pipeline"
)

var importCmd = &cobra.Command{
	Use:   "import FILE|DIR",
	Short: "Import records from JSONL exports",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	a, err := assumptions()
	if err != nil {
		return err
	}

	res, err := pipeline.Load(args[0], a, func(current, total int) {
		log.Debug().Int("done", current).Int("files", total).Msg("parsed export")
	})
	if err != nil {
		return err
	}
	if res.TotalFiles == 0 {
		return fmt.Errorf("no .jsonl files at %s", args[0])
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	added, err := l.Import(res.Records)
	if err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	fmt.Printf("  Imported %d new of %d records from %d file(s)\n", added, len(res.Records), res.ParsedFiles)
	if res.Computed > 0 {
		fmt.Printf("  %d record(s) had no time cost; priced with today's profile\n", res.Computed)
	}
	if res.Duplicates > 0 {
		fmt.Printf("  %d record(s) appeared in more than one file; the last file won\n", res.Duplicates)
	}
	if res.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d line(s) could not be parsed\n", res.ParseErrors)
	}
	if res.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d file(s) could not be read\n", res.FileErrors)
	}
	return nil
}
