// Package probability implements the suite of ITM-probability estimators.
// Every model answers the same question - the chance that spot finishes at
// or beyond strike at expiry - with a different numerical technique, and
// each one degrades to a safe default on degenerate inputs instead of
// failing.
package probability

import (
	"math/rand"
	"time"

	"github.com/quantx/pulse/internal/core"
)

// Model names as they appear in ProbabilityResult.Models.
const (
	ModelD2          = "d2"
	ModelLognormal   = "lognormal"
	ModelBinomial    = "binomial"
	ModelMonteCarlo  = "monte_carlo"
	ModelGBM         = "gbm"
	ModelTrinomial   = "trinomial"
	ModelHeston      = "heston"
	ModelSABR        = "sabr"
	ModelJump        = "jump_diffusion"
	ModelGARCH       = "garch"
	ModelRND         = "risk_neutral_density"
	ModelMLHeuristic = "ml_heuristic"
)

// Model is an independently pluggable probability source.
type Model interface {
	Name() string
	Estimate(snap core.MarketSnapshot) (float64, error)
}

// SourceFunc produces the random source a stochastic model draws from. A
// model calls it once per Estimate, so a fixed-seed source makes every call
// reproducible while a time-seeded source redraws each time. The caller
// controls determinism uniformly through this handle.
type SourceFunc func() *rand.Rand

// FixedSeed returns a source producing an identical stream on every call.
func FixedSeed(seed int64) SourceFunc {
	return func() *rand.Rand {
		return rand.New(rand.NewSource(seed))
	}
}

// TimeSeeded returns a source producing a fresh stream on every call.
func TimeSeeded() SourceFunc {
	return func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// TreeParams configures the lattice models.
type TreeParams struct {
	Steps int
}

// DefaultTreeParams returns the standard 50-step lattice.
func DefaultTreeParams() TreeParams {
	return TreeParams{Steps: 50}
}

// MonteCarloParams configures the plain GBM simulation.
type MonteCarloParams struct {
	Paths int
}

// DefaultMonteCarloParams returns the standard 10000-path simulation.
func DefaultMonteCarloParams() MonteCarloParams {
	return MonteCarloParams{Paths: 10000}
}

// HestonParams configures the stochastic-volatility simulation. V0 of zero
// means "use iv squared".
type HestonParams struct {
	Kappa  float64
	Theta  float64
	SigmaV float64
	Rho    float64
	V0     float64
	Paths  int
	Steps  int
}

// DefaultHestonParams returns the standard calibration.
func DefaultHestonParams() HestonParams {
	return HestonParams{Kappa: 2.0, Theta: 0.04, SigmaV: 0.3, Rho: -0.7, Paths: 5000, Steps: 100}
}

// SABRParams configures the SABR asymptotic model. Alpha of zero means
// "infer from iv".
type SABRParams struct {
	Alpha float64
	Beta  float64
	Rho   float64
	Nu    float64
}

// DefaultSABRParams returns the standard calibration.
func DefaultSABRParams() SABRParams {
	return SABRParams{Beta: 0.5, Rho: -0.3, Nu: 0.4}
}

// JumpParams configures the Merton jump-diffusion simulation.
type JumpParams struct {
	Lambda    float64
	MuJump    float64
	SigmaJump float64
	Paths     int
}

// DefaultJumpParams returns the standard calibration.
func DefaultJumpParams() JumpParams {
	return JumpParams{Lambda: 0.1, MuJump: -0.05, SigmaJump: 0.15, Paths: 5000}
}

// GARCHParams configures the GARCH(1,1) variance simulation.
type GARCHParams struct {
	Alpha float64
	Beta  float64
	Omega float64
	Paths int
	Steps int
}

// DefaultGARCHParams returns the standard calibration.
func DefaultGARCHParams() GARCHParams {
	return GARCHParams{Alpha: 0.1, Beta: 0.85, Omega: 0.0001, Paths: 5000, Steps: 100}
}
