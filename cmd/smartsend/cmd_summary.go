package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"smart-send/internal/journal"
	"smart-send/internal/store"
)

var summaryDate string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize one day of the recommendation journal by corridor",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "day to summarize as YYYY-MM-DD (default today, UTC)")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		return err
	}

	day := time.Now().UTC()
	if summaryDate != "" {
		day, err = time.Parse("2006-01-02", summaryDate)
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}
	}

	j := journal.New(cfg.Journal.Dir)
	rows, err := j.Summarize(day)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintf(out, "no journal entries for %s\n", day.Format("2006-01-02"))
		return nil
	}
	for _, r := range rows {
		fmt.Fprintf(out, "%-24s send_now=%d consider_waiting=%d failed=%d\n", r.Corridor, r.SendNow, r.ConsiderWaiting, r.Failed)
	}

	p, err := j.WriteSummaryCSV(day)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "CSV written:", p)
	return nil
}
