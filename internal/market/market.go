// Package market provides trend and regime analytics over a price/volume
// history. Every statistic degrades to a neutral default below its minimum
// required history length.
package market

import (
	"math"

	"github.com/quantx/pulse/internal/core"
)

const (
	atrPeriod        = 14
	bollingerPeriod  = 20
	bollingerStd     = 2.0
	meanRevLookback  = 20
	regimeMinHistory = 30
	regimeVolCutoff  = 0.15
	vwapBand         = 0.001
)

// ATR returns the average true range over the trailing period. Needs
// period+1 closes; otherwise 0.
func ATR(high, low, close []float64, period int) float64 {
	if len(close) < period+1 {
		return 0
	}
	trs := make([]float64, 0, len(close)-1)
	for i := 1; i < len(close); i++ {
		tr := math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-close[i-1]), math.Abs(low[i]-close[i-1])))
		trs = append(trs, tr)
	}
	var sum float64
	for _, tr := range trs[len(trs)-period:] {
		sum += tr
	}
	return sum / float64(period)
}

// ATRTrend classifies the close series as trending only when the overall
// move exceeds one ATR in the slope's direction.
func ATRTrend(high, low, close []float64) core.TrendDirection {
	if len(close) < 2 {
		return core.TrendSideways
	}
	a := ATR(high, low, close, atrPeriod)
	if a == 0 {
		return core.TrendSideways
	}
	slope := leastSquaresSlope(close)
	last, first := close[len(close)-1], close[0]
	if slope > 0 && last-first > a {
		return core.TrendUp
	}
	if slope < 0 && first-last > a {
		return core.TrendDown
	}
	return core.TrendSideways
}

// VWAP returns the volume-weighted average price. Mismatched or empty
// inputs yield 0.
func VWAP(prices, volumes []float64) float64 {
	if len(prices) == 0 || len(volumes) == 0 || len(prices) != len(volumes) {
		return 0
	}
	var pv, v float64
	for i := range prices {
		pv += prices[i] * volumes[i]
		v += volumes[i]
	}
	return pv / (v + 1e-8)
}

// VWAPSignal classifies the last price against VWAP with a 0.1% band.
func VWAPSignal(prices, volumes []float64) core.VWAPSignal {
	if len(prices) == 0 {
		return core.VWAPNeutral
	}
	v := VWAP(prices, volumes)
	last := prices[len(prices)-1]
	if last > v*(1+vwapBand) {
		return core.VWAPAbove
	}
	if last < v*(1-vwapBand) {
		return core.VWAPBelow
	}
	return core.VWAPNear
}

// BollingerBandwidth returns (upper-lower)/middle over the trailing 20-bar
// window. Shorter histories yield 0.
func BollingerBandwidth(close []float64) float64 {
	if len(close) < bollingerPeriod {
		return 0
	}
	window := close[len(close)-bollingerPeriod:]
	mean, std := meanStd(window)
	upper := mean + bollingerStd*std
	lower := mean - bollingerStd*std
	return (upper - lower) / (mean + 1e-8)
}

// LinearTrend classifies the close series by the sign of its least-squares
// slope.
func LinearTrend(close []float64) core.TrendDirection {
	if len(close) < 2 {
		return core.TrendSideways
	}
	slope := leastSquaresSlope(close)
	switch {
	case slope > 0:
		return core.TrendUp
	case slope < 0:
		return core.TrendDown
	default:
		return core.TrendSideways
	}
}

// MeanReversionScore returns the negated z-score of the last close within
// its 20-bar window: positive when price is stretched below its mean.
func MeanReversionScore(close []float64) float64 {
	if len(close) < meanRevLookback {
		return 0
	}
	window := close[len(close)-meanRevLookback:]
	mean, std := meanStd(window)
	z := (window[len(window)-1] - mean) / (std + 1e-8)
	return -z
}

// Regime classifies the market by annualized log-return volatility crossed
// with slope sign. Histories under 30 closes default to RANGE.
func Regime(close []float64) core.MarketRegime {
	if len(close) < regimeMinHistory {
		return core.RegimeRange
	}
	returns := make([]float64, 0, len(close)-1)
	for i := 1; i < len(close); i++ {
		returns = append(returns, math.Log(close[i]/close[i-1]))
	}
	_, std := meanStd(returns)
	vol := std * math.Sqrt(252)
	slope := leastSquaresSlope(close)

	switch {
	case vol < regimeVolCutoff && slope > 0:
		return core.RegimeBull
	case vol < regimeVolCutoff && slope < 0:
		return core.RegimeBear
	case vol >= regimeVolCutoff && math.Abs(slope) < 1e-6:
		return core.RegimeVolatile
	default:
		return core.RegimeRange
	}
}

// Metrics assembles all market analytics over a price history.
func Metrics(h core.PriceHistory) core.MarketRegimeMetrics {
	return core.MarketRegimeMetrics{
		ATRTrend:           ATRTrend(h.High, h.Low, h.Close),
		VWAPSignal:         VWAPSignal(h.Close, h.Volume),
		BollingerBandwidth: BollingerBandwidth(h.Close),
		TrendSignal:        LinearTrend(h.Close),
		MeanReversionScore: MeanReversionScore(h.Close),
		Regime:             Regime(h.Close),
	}
}

func meanStd(xs []float64) (float64, float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var variance float64
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(variance / float64(len(xs)))
}

func leastSquaresSlope(ys []float64) float64 {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
