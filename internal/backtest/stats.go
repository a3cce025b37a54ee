package backtest

import (
	"math"

	"github.com/quantx/pulse/internal/core"
)

// profitFactorCap is the finite sentinel used when there are no losing
// returns but at least one winner. Kept finite so results serialize
// cleanly; the bound itself is arbitrary.
const profitFactorCap = 999.0

// ComputeStats derives performance statistics from an equity curve. Curves
// with fewer than two points yield the zero stats.
func ComputeStats(curve []float64) core.BacktestStats {
	if len(curve) < 2 {
		return core.BacktestStats{}
	}

	returns := make([]float64, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		returns[i-1] = (curve[i] - curve[i-1]) / curve[i-1]
	}

	wins := 0
	var grossProfit, grossLoss float64
	for _, r := range returns {
		if r > 0 {
			wins++
			grossProfit += r
		} else if r < 0 {
			grossLoss -= r
		}
	}

	winRate := float64(wins) / float64(len(returns))

	var profitFactor float64
	switch {
	case grossLoss > 0:
		profitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		profitFactor = profitFactorCap
	}

	return core.BacktestStats{
		TotalTrades:  len(returns),
		WinRate:      winRate,
		ProfitFactor: profitFactor,
		MaxDrawdown:  maxDrawdown(curve),
		Sharpe:       sharpe(returns),
	}
}

// maxDrawdown returns the deepest (equity-peak)/peak decline, always <= 0.
func maxDrawdown(curve []float64) float64 {
	peak := curve[0]
	maxDD := 0.0
	for _, v := range curve {
		if v > peak {
			peak = v
		}
		dd := (v - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// sharpe annualizes mean return over deviation assuming 252 trading days.
func sharpe(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(len(returns)))

	return mean / (std + 1e-8) * math.Sqrt(252)
}
