package probability

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/pricing"
)

// Suite evaluates every registered model against a snapshot. Models are
// isolated: a panic or error inside one is recorded as an absent result and
// never blocks the others.
type Suite struct {
	models []Model
	logger *zap.Logger
}

// NewSuite creates a suite over the given models.
func NewSuite(models []Model, logger ...*zap.Logger) *Suite {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Suite{models: models, logger: l}
}

// NewDefaultSuite wires all twelve models with their standard parameters:
// a time-seeded Monte Carlo and fixed-seed Heston, jump-diffusion and GARCH
// sources, matching the engine's documented determinism profile.
func NewDefaultSuite(logger ...*zap.Logger) *Suite {
	models := []Model{
		NewAnalytic(),
		NewLognormal(),
		NewBinomial(DefaultTreeParams()),
		NewMonteCarlo(DefaultMonteCarloParams(), TimeSeeded()),
		NewGBM(),
		NewTrinomial(DefaultTreeParams()),
		NewHeston(DefaultHestonParams(), FixedSeed(42)),
		NewSABR(DefaultSABRParams()),
		NewJumpDiffusion(DefaultJumpParams(), FixedSeed(42)),
		NewGARCH(DefaultGARCHParams(), FixedSeed(42)),
		NewRiskNeutralDensity(nil),
		NewHeuristic(),
	}
	return NewSuite(models, logger...)
}

// Models returns the names of all registered models.
func (s *Suite) Models() []string {
	names := make([]string, 0, len(s.models))
	for _, m := range s.models {
		names = append(names, m.Name())
	}
	return names
}

// Evaluate runs every model and collects the results. Failures are surfaced
// in the Failed list, never as an error from Evaluate itself.
func (s *Suite) Evaluate(snap core.MarketSnapshot) core.ProbabilityResult {
	result := core.ProbabilityResult{
		Models:       make(map[string]float64, len(s.models)),
		ExpectedMove: pricing.ExpectedMove(snap.Spot, snap.DaysToExpiry, snap.IV),
	}

	for _, m := range s.models {
		prob, err := s.estimate(m, snap)
		if err != nil {
			s.logger.Warn("probability model failed",
				zap.String("model", m.Name()),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, m.Name())
			continue
		}
		result.Models[m.Name()] = prob
	}
	sort.Strings(result.Failed)
	return result
}

// estimate runs one model, converting panics and out-of-range outputs into
// errors.
func (s *Suite) estimate(m Model, snap core.MarketSnapshot) (prob float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.WrapError(core.ErrModelFailed, fmt.Errorf("panic: %v", r))
		}
	}()

	prob, err = m.Estimate(snap)
	if err != nil {
		return 0, core.WrapError(core.ErrModelFailed, err)
	}
	if math.IsNaN(prob) || math.IsInf(prob, 0) {
		return 0, core.WrapError(core.ErrModelFailed, fmt.Errorf("non-finite probability %v", prob))
	}
	// A whisker outside [0,1] is floating-point noise; anything worse is a
	// model defect.
	if prob < -1e-9 || prob > 1+1e-9 {
		return 0, core.WrapError(core.ErrModelFailed, fmt.Errorf("probability %v out of range", prob))
	}
	return math.Max(0, math.Min(1, prob)), nil
}
