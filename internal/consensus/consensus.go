// Package consensus fuses the four analytics groups into one bounded
// confidence score.
package consensus

import (
	"math"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/probability"
)

// Fixed fusion weights. These are a design decision, not derived.
const (
	weightProbability  = 0.35
	weightVolatility   = 0.25
	weightOpenInterest = 0.15
	weightMarket       = 0.25
)

// Compute derives the four 0-100 sub-scores and fuses them into a clamped
// confidence.
func Compute(prob core.ProbabilityResult, vol core.VolatilityMetrics, oi core.OIMetrics, market core.MarketRegimeMetrics) core.ConsensusScore {
	probScore := probabilityScore(prob)
	volScore := volatilityScore(vol)
	oiScore := oiScore(oi)
	marketScore := marketScore(market)

	raw := probScore*weightProbability +
		volScore*weightVolatility +
		oiScore*weightOpenInterest +
		marketScore*weightMarket

	return core.ConsensusScore{
		Confidence:   clamp(raw, 0, 100),
		Probability:  probScore,
		Volatility:   volScore,
		OpenInterest: oiScore,
		Market:       marketScore,
	}
}

// probabilityScore takes the better of the analytic and Monte Carlo
// estimates; an absent model contributes 0.
func probabilityScore(prob core.ProbabilityResult) float64 {
	d2, _ := prob.Get(probability.ModelD2)
	mc, _ := prob.Get(probability.ModelMonteCarlo)
	return 100 * math.Max(d2, mc)
}

// volatilityScore averages up to three components: HV/IV balance capped at
// 2, and distance of rank and percentile from their 50 midpoints. Rank and
// percentile sit at the neutral 50 when no IV history exists, so there are
// always at least two components.
func volatilityScore(vol core.VolatilityMetrics) float64 {
	components := []float64{
		100 - math.Abs(vol.IVRank-50),
		100 - math.Abs(vol.IVPercentile-50),
	}
	if vol.IV > 0 && vol.HV > 0 {
		components = append(components, math.Min(2, vol.HV/vol.IV)*50)
	}
	var sum float64
	for _, c := range components {
		sum += c
	}
	return sum / float64(len(components))
}

// oiScore penalizes spike and anomaly magnitude, floored at 0.
func oiScore(oi core.OIMetrics) float64 {
	return 100 - math.Min(100, math.Abs(oi.SpikeScore)*10+oi.AnomalyScore*10)
}

// marketScore averages the mean-reversion, trend and regime components.
func marketScore(market core.MarketRegimeMetrics) float64 {
	mr := 50 + market.MeanReversionScore*10

	var trend float64
	switch market.TrendSignal {
	case core.TrendUp:
		trend = 70
	case core.TrendDown:
		trend = 30
	default:
		trend = 50
	}

	var regime float64
	switch market.Regime {
	case core.RegimeBull:
		regime = 70
	case core.RegimeBear:
		regime = 30
	case core.RegimeVolatile:
		regime = 40
	default:
		regime = 50
	}

	return (mr + trend + regime) / 3
}

func clamp(x, low, high float64) float64 {
	return math.Max(low, math.Min(high, x))
}
