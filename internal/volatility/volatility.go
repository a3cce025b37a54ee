// Package volatility provides the implied-vol solver and descriptive
// volatility statistics.
package volatility

import (
	"math"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/pricing"
)

const (
	bracketLow  = 1e-6
	bracketHigh = 5.0
	maxIter     = 50
	priceTol    = 1e-5
)

// Implied solves for the volatility that reproduces the observed option
// price by bisection over [1e-6, 5]. It never fails to terminate: after the
// iteration budget it returns the midpoint of the final bracket. A
// non-positive price or spot yields 0.
func Implied(spot, strike, optionPrice float64, days int, side core.OptionSide, rate float64) float64 {
	t := pricing.Years(days)
	if optionPrice <= 0 || t <= 0 || spot <= 0 || strike <= 0 {
		return 0
	}

	low, high := bracketLow, bracketHigh
	for i := 0; i < maxIter; i++ {
		mid := 0.5 * (low + high)
		price := pricing.PriceAt(spot, strike, t, rate, mid, side)
		if math.Abs(price-optionPrice) < priceTol {
			return mid
		}
		if price > optionPrice {
			high = mid
		} else {
			low = mid
		}
	}
	return 0.5 * (low + high)
}

// Historical returns the annualized Bessel-corrected standard deviation of
// a return series. Fewer than two returns yields 0.
func Historical(returns []float64) float64 {
	if len(returns) < 2 {
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
	std := math.Sqrt(variance / float64(len(returns)-1))
	return std * math.Sqrt(pricing.TradingDays)
}

// Rank returns the percentage of historical samples at or below the current
// IV. Empty history yields 0.
func Rank(iv float64, history []float64) float64 {
	if len(history) == 0 {
		return 0
	}
	count := 0
	for _, h := range history {
		if h <= iv {
			count++
		}
	}
	return 100.0 * float64(count) / float64(len(history))
}

// Percentile returns the percentage of historical samples strictly below
// the current IV. The strict inequality is deliberate: rank and percentile
// differ exactly at duplicated boundary values.
func Percentile(iv float64, history []float64) float64 {
	if len(history) == 0 {
		return 0
	}
	below := 0
	for _, h := range history {
		if h < iv {
			below++
		}
	}
	return 100.0 * float64(below) / float64(len(history))
}

// Metrics solves the implied vol and assembles the descriptive measures
// around it. Returns and ivHistory may be empty; the corresponding fields
// degrade to 0.
func Metrics(spot, strike, optionPrice float64, days int, side core.OptionSide, rate float64, returns, ivHistory []float64) core.VolatilityMetrics {
	iv := Implied(spot, strike, optionPrice, days, side, rate)
	return core.VolatilityMetrics{
		IV:           iv,
		HV:           Historical(returns),
		IVRank:       Rank(iv, ivHistory),
		IVPercentile: Percentile(iv, ivHistory),
	}
}
