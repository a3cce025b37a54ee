package volatility

import (
	"math"
	"testing"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/pricing"
)

func TestImpliedRoundTrip(t *testing.T) {
	// Solving for IV from a closed-form price must recover the vol that
	// generated it across the whole usable range.
	vols := []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 2.9}
	for _, v0 := range vols {
		price := pricing.Price(100, 105, 60, v0, core.SideCall, 0.02)
		got := Implied(100, 105, price, 60, core.SideCall, 0.02)
		if math.Abs(got-v0) > 1e-4 {
			t.Errorf("round trip at vol %v: got %v", v0, got)
		}
	}
}

func TestImpliedRoundTripPut(t *testing.T) {
	price := pricing.Price(100, 95, 45, 0.35, core.SidePut, 0)
	got := Implied(100, 95, price, 45, core.SidePut, 0)
	if math.Abs(got-0.35) > 1e-4 {
		t.Errorf("put round trip: got %v, want 0.35", got)
	}
}

func TestImpliedDegenerate(t *testing.T) {
	if got := Implied(100, 100, 0, 30, core.SideCall, 0); got != 0 {
		t.Errorf("zero price: got %v, want 0", got)
	}
	if got := Implied(100, 100, -3, 30, core.SideCall, 0); got != 0 {
		t.Errorf("negative price: got %v, want 0", got)
	}
	if got := Implied(0, 100, 5, 30, core.SideCall, 0); got != 0 {
		t.Errorf("zero spot: got %v, want 0", got)
	}
}

func TestImpliedUnreachablePriceReturnsBracketEdge(t *testing.T) {
	// A price above any vol in the bracket cannot converge; the solver must
	// still terminate with the final bracket midpoint near the high edge.
	got := Implied(100, 100, 99.9, 30, core.SideCall, 0)
	if got < 4.9 || got > 5.0 {
		t.Errorf("unreachable price: got %v, want near bracket top 5.0", got)
	}
}

func TestHistorical(t *testing.T) {
	// Constant returns have zero deviation.
	if got := Historical([]float64{0.01, 0.01, 0.01, 0.01}); got != 0 {
		t.Errorf("constant returns: got %v, want 0", got)
	}

	// Bessel-corrected std of {0.01, -0.01} is sqrt(2)*0.01.
	got := Historical([]float64{0.01, -0.01})
	want := math.Sqrt2 * 0.01 * math.Sqrt(252)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := Historical(nil); got != 0 {
		t.Errorf("empty returns: got %v, want 0", got)
	}
}

func TestRankAndPercentileBoundary(t *testing.T) {
	// Duplicated boundary values split rank (<=) from percentile (<).
	history := []float64{0.1, 0.2, 0.2, 0.3}

	if got := Rank(0.2, history); got != 75 {
		t.Errorf("Rank = %v, want 75", got)
	}
	if got := Percentile(0.2, history); got != 25 {
		t.Errorf("Percentile = %v, want 25", got)
	}
}

func TestRankAndPercentileEmptyHistory(t *testing.T) {
	if got := Rank(0.2, nil); got != 0 {
		t.Errorf("Rank on empty history = %v, want 0", got)
	}
	if got := Percentile(0.2, nil); got != 0 {
		t.Errorf("Percentile on empty history = %v, want 0", got)
	}
}

func TestMetrics(t *testing.T) {
	price := pricing.Price(100, 100, 30, 0.25, core.SideCall, 0)
	history := []float64{0.1, 0.2, 0.3, 0.4}

	m := Metrics(100, 100, price, 30, core.SideCall, 0, []float64{0.01, -0.02, 0.005}, history)

	if math.Abs(m.IV-0.25) > 1e-4 {
		t.Errorf("IV = %v, want ~0.25", m.IV)
	}
	if m.HV <= 0 {
		t.Errorf("HV = %v, want positive", m.HV)
	}
	if m.IVRank != 50 {
		t.Errorf("IVRank = %v, want 50", m.IVRank)
	}
	if m.IVPercentile != 50 {
		t.Errorf("IVPercentile = %v, want 50", m.IVPercentile)
	}
}
