// Package greeks computes the option price sensitivities on the shared
// pricing primitives.
package greeks

import (
	"math"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/pricing"
)

// Compute returns the option price and its five sensitivities. Theta is
// per-day decay and vega is per 1-point vol change. Degenerate inputs yield
// the all-zero result - the engine never fails.
func Compute(snap core.MarketSnapshot) core.GreeksResult {
	t := pricing.Years(snap.DaysToExpiry)
	if t <= 0 || snap.IV <= 0 || snap.Spot <= 0 || snap.Strike <= 0 {
		return core.GreeksResult{}
	}

	d1, d2 := pricing.D1D2(snap.Spot, snap.Strike, t, snap.IV, snap.Rate)
	price := pricing.Price(snap.Spot, snap.Strike, snap.DaysToExpiry, snap.IV, snap.Side, snap.Rate)
	discount := math.Exp(-snap.Rate * t)

	var delta, rho, thetaD2 float64
	if snap.Side == core.SideCall {
		delta = pricing.NormCDF(d1)
		rho = t * snap.Strike * discount * pricing.NormCDF(d2)
		thetaD2 = d2
	} else {
		delta = pricing.NormCDF(d1) - 1
		rho = -t * snap.Strike * discount * pricing.NormCDF(-d2)
		thetaD2 = -d2
	}

	gamma := pricing.NormPDF(d1) / (snap.Spot * snap.IV * math.Sqrt(t))
	vega := snap.Spot * pricing.NormPDF(d1) * math.Sqrt(t) / 100.0
	theta := (-(snap.Spot * pricing.NormPDF(d1) * snap.IV / (2 * math.Sqrt(t))) -
		snap.Rate*snap.Strike*discount*pricing.NormCDF(thetaD2)) / pricing.TradingDays

	return core.GreeksResult{
		Price: price,
		Delta: delta,
		Gamma: gamma,
		Theta: theta,
		Vega:  vega,
		Rho:   rho,
	}
}
