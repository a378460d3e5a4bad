package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

const demoCorridor = "US to INDIA"

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run one recommendation for the US to INDIA corridor",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := a.recommend(ctx, demoCorridor)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, "\n=== SMART SEND RECOMMENDATION ===\n\n")
	_, err = fmt.Fprintln(out, rec.Text)
	return err
}
