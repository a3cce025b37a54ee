package probability

import (
	"math"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/pricing"
)

// SABR approximates an effective implied volatility from the SABR
// asymptotic formula and feeds it back through the analytic d2 probability.
type SABR struct {
	params SABRParams
}

// NewSABR creates the SABR model. A zero Alpha is inferred from the
// snapshot's iv at evaluation time.
func NewSABR(params SABRParams) SABR {
	if params.Beta == 0 && params.Rho == 0 && params.Nu == 0 {
		params = DefaultSABRParams()
	}
	return SABR{params: params}
}

func (SABR) Name() string { return ModelSABR }

func (m SABR) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if snap.Spot <= 0 || snap.Strike <= 0 || snap.IV <= 0 || t <= 0 {
		return 0, nil
	}
	p := m.params
	alpha := p.Alpha
	if alpha <= 0 {
		alpha = snap.IV * math.Pow(snap.Spot, 1-p.Beta)
	}

	f, k := snap.Spot, snap.Strike
	fPow := math.Pow(f, 1-p.Beta)
	z := (p.Nu / alpha) * (fPow - math.Pow(k, 1-p.Beta)) / (1 - p.Beta)

	var ivSABR float64
	if math.Abs(z) < 1e-6 {
		ivSABR = alpha / fPow
	} else {
		xz := math.Log((math.Sqrt(1-2*p.Rho*z+z*z) + z - p.Rho) / (1 - p.Rho))
		ivSABR = alpha / fPow * (z / xz)
	}

	_, d2 := pricing.D1D2(snap.Spot, snap.Strike, t, ivSABR, 0)
	return pricing.NormCDF(d2), nil
}
