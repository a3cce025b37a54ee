package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantx/pulse/internal/consensus"
	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/greeks"
	"github.com/quantx/pulse/internal/logger"
	"github.com/quantx/pulse/internal/market"
	"github.com/quantx/pulse/internal/oi"
	"github.com/quantx/pulse/internal/volatility"
)

var (
	evalSpot   float64
	evalStrike float64
	evalDays   int
	evalIV     float64
	evalSide   string
	evalRate   float64
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one option contract",
	Long:  "Run the full model suite, Greeks and consensus for a single contract and print the result as JSON",
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().Float64Var(&evalSpot, "spot", 0, "Underlying spot price (required)")
	evaluateCmd.Flags().Float64Var(&evalStrike, "strike", 0, "Option strike (required)")
	evaluateCmd.Flags().IntVar(&evalDays, "days", 7, "Days to expiry")
	evaluateCmd.Flags().Float64Var(&evalIV, "iv", 0, "Implied volatility, e.g. 0.18 (required)")
	evaluateCmd.Flags().StringVar(&evalSide, "side", "CALL", "Option side: CALL or PUT")
	evaluateCmd.Flags().Float64Var(&evalRate, "rate", 0.06, "Risk-free rate")

	evaluateCmd.MarkFlagRequired("spot")
	evaluateCmd.MarkFlagRequired("strike")
	evaluateCmd.MarkFlagRequired("iv")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	snap := core.MarketSnapshot{
		Spot:         evalSpot,
		Strike:       evalStrike,
		DaysToExpiry: evalDays,
		IV:           evalIV,
		Side:         core.OptionSide(evalSide),
		Rate:         evalRate,
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid contract: %w", err)
	}

	suite := buildSuite(cfg.Models, log)
	prob := suite.Evaluate(snap)
	vol := volatility.Metrics(snap.Spot, snap.Strike, 0, snap.DaysToExpiry, snap.Side, snap.Rate, nil, nil)
	oiMetrics := oi.Metrics(nil, nil, 0, 0, 0, 0)
	marketMetrics := market.Metrics(core.PriceHistory{})

	out := struct {
		Snapshot    core.MarketSnapshot    `json:"snapshot"`
		Consensus   core.ConsensusScore    `json:"consensus"`
		Probability core.ProbabilityResult `json:"probability"`
		Greeks      core.GreeksResult      `json:"greeks"`
	}{
		Snapshot:    snap,
		Consensus:   consensus.Compute(prob, vol, oiMetrics, marketMetrics),
		Probability: prob,
		Greeks:      greeks.Compute(snap),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
