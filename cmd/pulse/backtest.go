package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quantx/pulse/internal/backtest"
	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/logger"
)

var (
	backtestSymbol  string
	backtestPrices  string
	backtestBars    int
	backtestCapital float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [strategy.json]",
	Short: "Run a backtest on a strategy",
	Long: `Replay a strategy definition over a price series and show performance
statistics. Prices come from a file with one price per line, or from a
generated random walk when no file is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (required)")
	backtestCmd.Flags().StringVar(&backtestPrices, "prices", "", "Price file, one price per line")
	backtestCmd.Flags().IntVar(&backtestBars, "bars", 250, "Bars to generate when no price file is given")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "Initial capital (default from config)")

	backtestCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading strategy: %w", err)
	}
	var def core.StrategyDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return fmt.Errorf("parsing strategy: %w", err)
	}

	var prices []float64
	if backtestPrices != "" {
		prices, err = readPrices(backtestPrices)
		if err != nil {
			return fmt.Errorf("reading prices: %w", err)
		}
	} else {
		prices = randomWalk(backtestBars, cfg.Models.Seed)
	}

	capital := backtestCapital
	if capital <= 0 {
		capital = cfg.Backtest.InitialCapital
	}

	engine := backtest.NewEngine(backtest.Costs{
		FeeFraction: cfg.Costs.FeeFraction,
		SlippageBPS: cfg.Costs.SlippageBPS,
	}, log)
	result := engine.Run(def, backtestSymbol, prices, capital)

	fmt.Printf("Backtest %s\n", result.ID)
	fmt.Printf("Strategy: %s  Symbol: %s  Bars: %d\n\n", def.Name, backtestSymbol, len(prices))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Trades\t%d\n", result.Stats.TotalTrades)
	fmt.Fprintf(w, "Win rate\t%.2f%%\n", result.Stats.WinRate*100)
	fmt.Fprintf(w, "Profit factor\t%.2f\n", result.Stats.ProfitFactor)
	fmt.Fprintf(w, "Max drawdown\t%.2f%%\n", result.Stats.MaxDrawdown*100)
	fmt.Fprintf(w, "Sharpe\t%.2f\n", result.Stats.Sharpe)
	fmt.Fprintf(w, "Final equity\t%.2f\n", result.EquityCurve[len(result.EquityCurve)-1])
	return w.Flush()
}

// readPrices parses one price per line, skipping blanks and comments.
func readPrices(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var prices []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", line, err)
		}
		prices = append(prices, p)
	}
	return prices, scanner.Err()
}

// randomWalk generates a seeded price series around 100.
func randomWalk(bars int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	prices := make([]float64, bars)
	price := 100.0
	for i := range prices {
		price *= 1 + rng.NormFloat64()*0.01
		prices[i] = price
	}
	return prices
}
