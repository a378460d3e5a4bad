// smartsend advises remittance customers whether to send money now or wait.
//
// Usage:
//
//	smartsend recommend "US to INDIA" [--config=config.yaml] [--timeout=30s] [--retries=2] [--journal]
//	smartsend demo
//	smartsend summary [--date=2026-10-19]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smart-send/internal/types"
)

var version = "dev"

var (
	configPath string
	timeout    string
	retries    int
	useJournal bool
)

var rootCmd = &cobra.Command{
	Use:           "smartsend",
	Short:         "Send-now-or-wait advice for remittance corridors",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "", "per-call oracle timeout, e.g. 30s (overrides config)")
	rootCmd.PersistentFlags().IntVar(&retries, "retries", -1, "whole-pipeline retries on oracle failures (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&useJournal, "journal", false, "append the result to the recommendation journal")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error kind to a process status.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	switch types.Kind(err) {
	case "InvalidInput":
		return 2
	case "OracleTimeout":
		return 3
	case "OracleUnavailable":
		return 4
	case "MalformedResponse":
		return 5
	default:
		return 1
	}
}
