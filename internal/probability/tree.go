package probability

import (
	"math"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/pricing"
)

// Binomial discretizes expiry into a recombining lattice with u=exp(iv
// sqrt(dt)), d=1/u and a fixed 0.5 branch probability. The 0.5 probability
// is a deliberate simplification and diverges from standard CRR
// calibration.
type Binomial struct {
	params TreeParams
}

// NewBinomial creates the binomial lattice model.
func NewBinomial(params TreeParams) Binomial {
	if params.Steps <= 0 {
		params = DefaultTreeParams()
	}
	return Binomial{params: params}
}

func (Binomial) Name() string { return ModelBinomial }

func (m Binomial) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if t <= 0 || snap.IV <= 0 {
		return 0, nil
	}
	n := m.params.Steps
	dt := t / float64(n)
	u := math.Exp(snap.IV * math.Sqrt(dt))
	d := 1 / u
	p := 0.5

	var total float64
	for i := 0; i <= n; i++ {
		st := snap.Spot * math.Pow(u, float64(i)) * math.Pow(d, float64(n-i))
		if st >= snap.Strike {
			total += binomialWeight(n, i, p)
		}
	}
	return total, nil
}

// binomialWeight is C(n,i) p^i (1-p)^(n-i), evaluated in log space so large
// step counts stay finite.
func binomialWeight(n, i int, p float64) float64 {
	lg, _ := math.Lgamma(float64(n) + 1)
	lgi, _ := math.Lgamma(float64(i) + 1)
	lgni, _ := math.Lgamma(float64(n-i) + 1)
	return math.Exp(lg - lgi - lgni + float64(i)*math.Log(p) + float64(n-i)*math.Log(1-p))
}

// Trinomial is a three-branch lattice with branch probabilities from the
// squared-ratio variance match of the original calibration, summed over all
// (up, down) node pairs whose terminal price clears the strike.
type Trinomial struct {
	params TreeParams
}

// NewTrinomial creates the trinomial lattice model.
func NewTrinomial(params TreeParams) Trinomial {
	if params.Steps <= 0 {
		params = DefaultTreeParams()
	}
	return Trinomial{params: params}
}

func (Trinomial) Name() string { return ModelTrinomial }

func (m Trinomial) Estimate(snap core.MarketSnapshot) (float64, error) {
	t := pricing.Years(snap.DaysToExpiry)
	if t <= 0 || snap.IV <= 0 {
		return 0, nil
	}
	n := m.params.Steps
	dt := t / float64(n)
	u := math.Exp(snap.IV * math.Sqrt(1.5*dt))
	d := 1 / u

	pu := math.Pow((1-d)/(u-d), 2)
	pd := math.Pow((u-1)/(u-d), 2)
	pm := 1 - pu - pd

	var total float64
	for i := 0; i <= n; i++ {
		for j := 0; j <= n-i; j++ {
			st := snap.Spot * math.Pow(u, float64(i)) * math.Pow(d, float64(j))
			if st >= snap.Strike {
				total += trinomialWeight(n, i, j, pu, pd, pm)
			}
		}
	}
	return math.Min(1, total), nil
}

// trinomialWeight is the multinomial weight n!/(i! j! (n-i-j)!) pu^i pd^j
// pm^(n-i-j) in log space.
func trinomialWeight(n, i, j int, pu, pd, pm float64) float64 {
	k := n - i - j
	lg, _ := math.Lgamma(float64(n) + 1)
	lgi, _ := math.Lgamma(float64(i) + 1)
	lgj, _ := math.Lgamma(float64(j) + 1)
	lgk, _ := math.Lgamma(float64(k) + 1)
	logW := lg - lgi - lgj - lgk
	if i > 0 {
		logW += float64(i) * math.Log(pu)
	}
	if j > 0 {
		logW += float64(j) * math.Log(pd)
	}
	if k > 0 {
		logW += float64(k) * math.Log(pm)
	}
	return math.Exp(logW)
}
