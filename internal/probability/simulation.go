package probability

import (
	"math"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/pricing"
)

// MonteCarlo simulates terminal GBM prices and reports the empirical ITM
// fraction. With a time-seeded source every call redraws its samples, which
// is a documented source of run-to-run nondeterminism.
type MonteCarlo struct {
	params MonteCarloParams
	source SourceFunc
}

// NewMonteCarlo creates the plain GBM simulation model.
func NewMonteCarlo(params MonteCarloParams, source SourceFunc) MonteCarlo {
	if params.Paths <= 0 {
		params = DefaultMonteCarloParams()
	}
	if source == nil {
		source = TimeSeeded()
	}
	return MonteCarlo{params: params, source: source}
}

func (MonteCarlo) Name() string { return ModelMonteCarlo }

func (m MonteCarlo) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if t <= 0 || snap.IV <= 0 {
		return 0, nil
	}
	rng := m.source()
	drift := -0.5 * snap.IV * snap.IV * t
	diffusion := snap.IV * math.Sqrt(t)

	itm := 0
	for i := 0; i < m.params.Paths; i++ {
		st := snap.Spot * math.Exp(drift+diffusion*rng.NormFloat64())
		if st >= snap.Strike {
			itm++
		}
	}
	return float64(itm) / float64(m.params.Paths), nil
}

// Heston simulates a CIR-style mean-reverting variance process correlated
// with the price innovation.
type Heston struct {
	params HestonParams
	source SourceFunc
}

// NewHeston creates the stochastic-volatility simulation model.
func NewHeston(params HestonParams, source SourceFunc) Heston {
	if params.Paths <= 0 {
		params = DefaultHestonParams()
	}
	if params.Steps <= 0 {
		params.Steps = 100
	}
	if source == nil {
		source = FixedSeed(42)
	}
	return Heston{params: params, source: source}
}

func (Heston) Name() string { return ModelHeston }

func (m Heston) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if t <= 0 || snap.IV <= 0 {
		return 0, nil
	}
	p := m.params
	v0 := p.V0
	if v0 <= 0 {
		v0 = snap.IV * snap.IV
	}
	dt := t / float64(p.Steps)
	sqrtDt := math.Sqrt(dt)
	rhoComp := math.Sqrt(1 - p.Rho*p.Rho)
	rng := m.source()

	itm := 0
	for i := 0; i < p.Paths; i++ {
		s := snap.Spot
		v := v0
		for step := 0; step < p.Steps; step++ {
			z1 := rng.NormFloat64()
			z2 := p.Rho*z1 + rhoComp*rng.NormFloat64()

			// CIR variance update, floored to keep the sqrt real
			v = math.Max(0.01, v+p.Kappa*(p.Theta-v)*dt+p.SigmaV*math.Sqrt(v)*sqrtDt*z2)
			s *= math.Exp(-0.5*v*dt + math.Sqrt(v)*sqrtDt*z1)
		}
		if s >= snap.Strike {
			itm++
		}
	}
	return float64(itm) / float64(p.Paths), nil
}

// JumpDiffusion is the Merton model: a GBM terminal draw plus a
// Poisson-distributed number of lognormal jumps.
type JumpDiffusion struct {
	params JumpParams
	source SourceFunc
}

// NewJumpDiffusion creates the jump-diffusion simulation model.
func NewJumpDiffusion(params JumpParams, source SourceFunc) JumpDiffusion {
	if params.Paths <= 0 {
		params = DefaultJumpParams()
	}
	if source == nil {
		source = FixedSeed(42)
	}
	return JumpDiffusion{params: params, source: source}
}

func (JumpDiffusion) Name() string { return ModelJump }

func (m JumpDiffusion) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if t <= 0 || snap.IV <= 0 {
		return 0, nil
	}
	p := m.params
	rng := m.source()

	itm := 0
	for i := 0; i < p.Paths; i++ {
		jumps := poisson(rng, p.Lambda*t)

		s := snap.Spot * math.Exp(-0.5*snap.IV*snap.IV*t+snap.IV*math.Sqrt(t)*rng.NormFloat64())
		for j := 0; j < jumps; j++ {
			s *= math.Exp(p.MuJump + p.SigmaJump*rng.NormFloat64())
		}
		if s >= snap.Strike {
			itm++
		}
	}
	return float64(itm) / float64(p.Paths), nil
}

// poisson draws from Poisson(mean) by Knuth's product method. The means
// here (lambda*t) are tiny, so the loop runs once or twice.
func poisson(rng interface{ Float64() float64 }, mean float64) int {
	if mean <= 0 {
		return 0
	}
	limit := math.Exp(-mean)
	k := 0
	prod := 1.0
	for {
		prod *= rng.Float64()
		if prod <= limit {
			return k
		}
		k++
	}
}

// GARCH simulates a GARCH(1,1) variance process, updating variance each
// sub-step from the squared log-return shock just applied.
type GARCH struct {
	params GARCHParams
	source SourceFunc
}

// NewGARCH creates the GARCH(1,1) simulation model.
func NewGARCH(params GARCHParams, source SourceFunc) GARCH {
	if params.Paths <= 0 {
		params = DefaultGARCHParams()
	}
	if params.Steps <= 0 {
		params.Steps = 100
	}
	if source == nil {
		source = FixedSeed(42)
	}
	return GARCH{params: params, source: source}
}

func (GARCH) Name() string { return ModelGARCH }

func (m GARCH) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if t <= 0 || snap.IV <= 0 {
		return 0, nil
	}
	p := m.params
	dt := t / float64(p.Steps)
	rng := m.source()

	itm := 0
	for i := 0; i < p.Paths; i++ {
		s := snap.Spot
		v := snap.IV * snap.IV
		for step := 0; step < p.Steps; step++ {
			z := rng.NormFloat64()
			logRet := -0.5*v*dt + math.Sqrt(v*dt)*z
			s *= math.Exp(logRet)

			shock := logRet * logRet
			v = math.Max(0.0001, p.Omega+p.Alpha*shock+p.Beta*v)
		}
		if s >= snap.Strike {
			itm++
		}
	}
	return float64(itm) / float64(p.Paths), nil
}
