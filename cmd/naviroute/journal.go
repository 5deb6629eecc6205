package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"naviroute/gateway/pkg/cli"
	"naviroute/gateway/pkg/journal"
)

var journalFlags struct {
	format string
	since  time.Duration
	status string
	limit  int
	output string
	days   int
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the route journal",
	Long: `Export or prune the route journal written by "naviroute run" when
journal.enabled is true.

Subcommands:
  export  - Write journal entries as JSON or CSV
  prune   - Delete entries older than the retention period`,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export journal entries",
	Long: `Export journal entries, newest first.

Examples:
  # Last hour as JSON
  naviroute journal export --since 1h

  # Failed engine calls of the last day as CSV
  naviroute journal export --since 24h --status engine_error --format csv -o failures.csv`,
	RunE: exportJournal,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired journal entries",
	Long: `Delete entries older than journal.retention_days, or --days when given.

Examples:
  naviroute journal prune
  naviroute journal prune --days 7`,
	RunE: pruneJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalExportCmd, journalPruneCmd)

	journalExportCmd.Flags().StringVar(&journalFlags.format, "format", "json", "output format: json, csv")
	journalExportCmd.Flags().DurationVar(&journalFlags.since, "since", 0, "only entries recorded within this duration (e.g. 24h)")
	journalExportCmd.Flags().StringVar(&journalFlags.status, "status", "", "filter by status (success, translation_error, poi_error, engine_error, error)")
	journalExportCmd.Flags().IntVar(&journalFlags.limit, "limit", 1000, "max entries")
	journalExportCmd.Flags().StringVarP(&journalFlags.output, "output", "o", "", "output file (default: stdout)")

	journalPruneCmd.Flags().IntVar(&journalFlags.days, "days", 0, "retention in days (default: journal.retention_days)")
}

func exportJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	exporter, err := journal.NewExporter(journalFlags.format)
	if err != nil {
		return err
	}
	if journalFlags.limit < 0 {
		return fmt.Errorf("--limit must be non-negative")
	}

	storage, err := openJournal(&cfg.Journal)
	if err != nil {
		return cli.NewCommandError("journal export", err)
	}
	defer storage.Close()

	query := &journal.Query{
		Status: journalFlags.status,
		Limit:  journalFlags.limit,
	}
	if journalFlags.since > 0 {
		since := time.Now().Add(-journalFlags.since)
		query.Since = &since
	}

	ctx := context.Background()
	entries, err := storage.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("journal export", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if journalFlags.output != "" {
		f, err := os.Create(journalFlags.output)
		if err != nil {
			return cli.NewCommandError("journal export", err)
		}
		defer f.Close()
		w = f
	}

	if err := exporter.Export(ctx, entries, w); err != nil {
		return cli.NewCommandError("journal export", err)
	}
	if journalFlags.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d entries to %s\n", len(entries), journalFlags.output)
	}
	return nil
}

func pruneJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	retention := retentionConfig(&cfg.Journal)
	if journalFlags.days > 0 {
		retention.RetentionDays = journalFlags.days
	}
	if retention.RetentionDays <= 0 {
		return cli.NewConfigError("journal.retention_days", "retention is disabled, nothing to prune")
	}

	storage, err := openJournal(&cfg.Journal)
	if err != nil {
		return cli.NewCommandError("journal prune", err)
	}
	defer storage.Close()

	deleted, err := journal.NewPruner(storage, retention).Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("journal prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d entries older than %d days\n", deleted, retention.RetentionDays)
	return nil
}
