package volatility

// Surface is a descriptive IV surface container: one IV row per maturity,
// one column per strike.
type Surface struct {
	Strikes    []float64   `json:"strikes"`
	Maturities []float64   `json:"maturities"`
	IVs        [][]float64 `json:"surface"`
}

// NewSurface builds a surface container from its axes and grid.
func NewSurface(strikes, maturities []float64, ivs [][]float64) Surface {
	return Surface{Strikes: strikes, Maturities: maturities, IVs: ivs}
}

// TermStructure is a descriptive ATM IV curve across tenors.
type TermStructure struct {
	Tenors []float64 `json:"tenors"`
	IVs    []float64 `json:"iv"`
}

// NewTermStructure builds a term-structure container.
func NewTermStructure(tenors, ivs []float64) TermStructure {
	return TermStructure{Tenors: tenors, IVs: ivs}
}

// SkewProfile is a descriptive IV-by-strike slice at one maturity.
type SkewProfile struct {
	Strikes []float64 `json:"strikes"`
	IVs     []float64 `json:"iv"`
}

// NewSkewProfile builds a skew container.
func NewSkewProfile(strikes, ivs []float64) SkewProfile {
	return SkewProfile{Strikes: strikes, IVs: ivs}
}
