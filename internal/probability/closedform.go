package probability

import (
	"math"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/pricing"
)

// Analytic is the closed-form d2 model: CALL probability Phi(d2), PUT
// probability Phi(-d2). Degenerate inputs collapse d2 to the neutral 0,
// giving the 0.5 default.
type Analytic struct{}

// NewAnalytic creates the analytic d2 model.
func NewAnalytic() Analytic { return Analytic{} }

func (Analytic) Name() string { return ModelD2 }

func (Analytic) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	_, d2 := pricing.D1D2(snap.Spot, snap.Strike, t, snap.IV, 0)
	if snap.Side == core.SideCall {
		return pricing.NormCDF(d2), nil
	}
	return pricing.NormCDF(-d2), nil
}

// Lognormal evaluates P(terminal price >= strike) directly from the
// lognormal CDF under the zero-drift approximation. Equivalent to the
// analytic call probability but computed independently as a cross-check.
type Lognormal struct{}

// NewLognormal creates the lognormal terminal-price model.
func NewLognormal() Lognormal { return Lognormal{} }

func (Lognormal) Name() string { return ModelLognormal }

func (Lognormal) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if snap.Spot <= 0 || snap.Strike <= 0 || snap.IV <= 0 || t <= 0 {
		return 0, nil
	}
	mu := math.Log(snap.Spot) - 0.5*snap.IV*snap.IV*t
	sigma := snap.IV * math.Sqrt(t)
	z := (math.Log(snap.Strike) - mu) / sigma
	return 1 - pricing.NormCDF(z), nil
}

// GBM is the lognormal model with risk-neutral drift (r - iv^2/2)t instead
// of the zero-drift approximation.
type GBM struct{}

// NewGBM creates the closed-form geometric Brownian motion model.
func NewGBM() GBM { return GBM{} }

func (GBM) Name() string { return ModelGBM }

func (GBM) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if snap.Spot <= 0 || snap.Strike <= 0 || snap.IV <= 0 || t <= 0 {
		return 0, nil
	}
	mu := math.Log(snap.Spot) + (snap.Rate-0.5*snap.IV*snap.IV)*t
	sigma := snap.IV * math.Sqrt(t)
	z := (math.Log(snap.Strike) - mu) / sigma
	return 1 - pricing.NormCDF(z), nil
}

// RiskNeutralDensity extracts probability from an option-price surface. No
// surface extraction is implemented yet; without one it falls back to the
// analytic d2 result.
type RiskNeutralDensity struct {
	Surface map[float64]float64 // strike -> option price, may be nil
}

// NewRiskNeutralDensity creates the density model with an optional surface.
func NewRiskNeutralDensity(surface map[float64]float64) RiskNeutralDensity {
	return RiskNeutralDensity{Surface: surface}
}

func (RiskNeutralDensity) Name() string { return ModelRND }

func (m RiskNeutralDensity) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if snap.Spot <= 0 || snap.Strike <= 0 || snap.IV <= 0 || t <= 0 {
		return 0, nil
	}
	_, d2 := pricing.D1D2(snap.Spot, snap.Strike, t, snap.IV, 0)
	return pricing.NormCDF(d2), nil
}

// Heuristic is a logistic transform of moneyness scaled by iv*sqrt(t),
// optionally nudged by a trend feature. A proxy, not a trained model.
type Heuristic struct {
	Trend    float64
	HasTrend bool
}

// NewHeuristic creates the heuristic model without a trend feature.
func NewHeuristic() Heuristic { return Heuristic{} }

// WithTrend returns a copy of the model nudged by the trend feature.
func (m Heuristic) WithTrend(trend float64) Heuristic {
	m.Trend = trend
	m.HasTrend = true
	return m
}

func (Heuristic) Name() string { return ModelMLHeuristic }

func (m Heuristic) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if snap.Spot <= 0 || snap.Strike <= 0 || snap.IV <= 0 || t <= 0 {
		return 0, nil
	}
	moneyness := snap.Strike / snap.Spot
	logOdds := -2.0 * (moneyness - 1.0) / (snap.IV * math.Sqrt(t))
	prob := 1.0 / (1.0 + math.Exp(-logOdds))
	if m.HasTrend {
		prob *= 1.0 + 0.1*m.Trend
	}
	return math.Max(0, math.Min(1, prob)), nil
}
