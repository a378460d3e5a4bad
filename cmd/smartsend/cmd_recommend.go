package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"smart-send/internal/types"
)

var recommendJSON bool

var recommendCmd = &cobra.Command{
	Use:   "recommend <corridor>",
	Short: "Recommend Send Now or Consider Waiting for a corridor",
	Long: `Runs the FX trend and news sentiment analyses for a corridor such as
"US to INDIA", then asks the advisor persona for a customer-facing recommendation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "print the full recommendation as JSON")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	corridor := types.Corridor(strings.Join(args, " "))
	rec, err := a.recommend(ctx, corridor)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if recommendJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	_, err = fmt.Fprintln(out, rec.Text)
	return err
}
