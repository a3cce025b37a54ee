package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantx/pulse/internal/chain"
	"github.com/quantx/pulse/internal/logger"
)

var (
	dashboardSymbol string
	dashboardExpiry string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the ATM-window chain summary for a symbol",
	RunE:  runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardSymbol, "symbol", "", "Symbol to summarize (required)")
	dashboardCmd.Flags().StringVar(&dashboardExpiry, "expiry", "", "Expiry date YYYY-MM-DD")

	dashboardCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	resolver := buildResolver(cfg.Chain, log)

	ctx := cmd.Context()
	c, err := resolver.ResolveChain(ctx, dashboardSymbol, dashboardExpiry)
	if err != nil {
		return fmt.Errorf("resolving chain: %w", err)
	}
	spot, err := resolver.ResolveSpot(ctx, dashboardSymbol)
	if err != nil {
		spot = 0
	}

	summary := chain.Summarize(c, dashboardSymbol, spot, time.Now().UTC())

	fmt.Printf("%s  spot %.2f  ATM %.0f  expiry %s\n",
		summary.Symbol, summary.Spot, summary.ATMStrike, summary.Expiry.Format("2006-01-02"))
	fmt.Printf("Prediction: %s  (confidence %.2f)\n\n", summary.Prediction, summary.Confidence)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STRIKE\tCALL OI\tPUT OI\tCALL VOL\tPUT VOL")
	for _, row := range summary.Window {
		fmt.Fprintf(w, "%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
			row.Strike, row.CallOI, row.PutOI, row.CallVolume, row.PutVolume)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if summary.PCROI != nil {
		fmt.Printf("\nPCR (OI): %.2f", *summary.PCROI)
		if summary.WindowPCROI != nil {
			fmt.Printf("  window: %.2f", *summary.WindowPCROI)
		}
		fmt.Println()
	}
	return nil
}
