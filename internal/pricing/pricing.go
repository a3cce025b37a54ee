// Package pricing provides the closed-form building blocks shared by the
// probability models, the Greeks engine and the implied-vol solver.
package pricing

import (
	"math"

	"github.com/quantx/pulse/internal/core"
)

// TradingDays is the day-count convention used everywhere in the engine.
const TradingDays = 252.0

// Years converts days-to-expiry into year fractions, flooring at one
// trading day.
func Years(days int) float64 {
	if days < 1 {
		days = 1
	}
	return float64(days) / TradingDays
}

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// NormPDF is the standard normal density.
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// D1D2 returns the two standardized log-moneyness distances. Degenerate
// inputs (non-positive t, iv, spot or strike) yield the neutral pair (0, 0);
// callers must treat that as "undefined, use a safe default".
func D1D2(spot, strike, t, iv, r float64) (float64, float64) {
	if t <= 0 || iv <= 0 || spot <= 0 || strike <= 0 {
		return 0, 0
	}
	d1 := (math.Log(spot/strike) + (r+0.5*iv*iv)*t) / (iv * math.Sqrt(t))
	d2 := d1 - iv*math.Sqrt(t)
	return d1, d2
}

// Price returns the Black-Scholes price for the snapshot's side. Degenerate
// inputs yield 0.
func Price(spot, strike float64, days int, iv float64, side core.OptionSide, rate float64) float64 {
	t := Years(days)
	if t <= 0 || iv <= 0 || spot <= 0 || strike <= 0 {
		return 0
	}
	d1, d2 := D1D2(spot, strike, t, iv, rate)
	if side == core.SideCall {
		return spot*NormCDF(d1) - strike*math.Exp(-rate*t)*NormCDF(d2)
	}
	return strike*math.Exp(-rate*t)*NormCDF(-d2) - spot*NormCDF(-d1)
}

// PriceAt is the t-domain pricer used by the implied-vol bisection. When t
// or iv is degenerate it returns intrinsic value so the solver's bracket
// stays ordered.
func PriceAt(spot, strike, t, rate, iv float64, side core.OptionSide) float64 {
	if t <= 0 || iv <= 0 {
		if side == core.SideCall {
			return math.Max(0, spot-strike)
		}
		return math.Max(0, strike-spot)
	}
	d1, d2 := D1D2(spot, strike, t, iv, rate)
	if side == core.SideCall {
		return spot*NormCDF(d1) - strike*math.Exp(-rate*t)*NormCDF(d2)
	}
	return strike*math.Exp(-rate*t)*NormCDF(-d2) - spot*NormCDF(-d1)
}

// ExpectedMove returns the one-standard-deviation move spot*iv*sqrt(t).
func ExpectedMove(spot float64, days int, iv float64) float64 {
	t := Years(days)
	if spot <= 0 || iv <= 0 || t <= 0 {
		return 0
	}
	return spot * iv * math.Sqrt(t)
}
