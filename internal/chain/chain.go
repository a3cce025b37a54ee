// Package chain models option-chain snapshots and the providers that
// produce them.
package chain

import (
	"math"
	"sort"
	"time"

	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/greeks"
)

// Entry is one option contract row in a chain snapshot
type Entry struct {
	Symbol       string          `json:"symbol"`
	Expiry       time.Time       `json:"expiry"`
	Strike       float64         `json:"strike"`
	Side         core.OptionSide `json:"side"`
	Bid          float64         `json:"bid"`
	Ask          float64         `json:"ask"`
	Last         float64         `json:"last"`
	Volume       float64         `json:"volume"`
	OpenInterest float64         `json:"open_interest"`
	IV           float64         `json:"iv"`
	Delta        float64         `json:"delta"`
	Gamma        float64         `json:"gamma"`
	Theta        float64         `json:"theta"`
	Vega         float64         `json:"vega"`
}

// Chain is a full option-chain snapshot for one underlying and expiry
type Chain struct {
	Underlying string    `json:"underlying"`
	Timestamp  time.Time `json:"timestamp"`
	Entries    []Entry   `json:"entries"`
}

// Strikes returns the sorted distinct positive strikes in the chain
func (c *Chain) Strikes() []float64 {
	seen := make(map[float64]bool)
	var strikes []float64
	for _, e := range c.Entries {
		if e.Strike > 0 && !seen[e.Strike] {
			seen[e.Strike] = true
			strikes = append(strikes, e.Strike)
		}
	}
	sort.Float64s(strikes)
	return strikes
}

// ATMStrike returns the listed strike closest to spot, or 0 when the
// chain has no positive strikes.
func ATMStrike(c *Chain, spot float64) float64 {
	strikes := c.Strikes()
	if len(strikes) == 0 {
		return 0
	}
	best := strikes[0]
	for _, k := range strikes[1:] {
		if math.Abs(k-spot) < math.Abs(best-spot) {
			best = k
		}
	}
	return best
}

// InferStep estimates the strike step as the median of positive
// adjacent-strike gaps, falling back to max(atm*1%, 50).
func InferStep(c *Chain, atm float64) float64 {
	strikes := c.Strikes()
	var diffs []float64
	for i := 1; i < len(strikes); i++ {
		if d := strikes[i] - strikes[i-1]; d > 0 {
			diffs = append(diffs, d)
		}
	}
	if len(diffs) == 0 {
		return math.Max(atm*0.01, 50)
	}
	sort.Float64s(diffs)
	return diffs[len(diffs)/2]
}

// Window selects the strikes nearest the n levels atm+i*step for
// i in [-n, n]. Levels with no strike within 1.1 steps are skipped, so
// the window shrinks at the edges of a sparse chain.
func Window(c *Chain, atm float64, n int, step float64) []float64 {
	strikes := c.Strikes()
	if len(strikes) == 0 || step <= 0 {
		return nil
	}
	selected := make(map[float64]bool)
	for i := -n; i <= n; i++ {
		target := atm + float64(i)*step
		best := strikes[0]
		for _, k := range strikes[1:] {
			if math.Abs(k-target) < math.Abs(best-target) {
				best = k
			}
		}
		if math.Abs(best-target) > step*1.1 {
			continue
		}
		selected[best] = true
	}
	window := make([]float64, 0, len(selected))
	for k := range selected {
		window = append(window, k)
	}
	sort.Float64s(window)
	return window
}

// StrikeRow aggregates both sides of one strike inside the ATM window
type StrikeRow struct {
	Strike     float64  `json:"strike"`
	CallOI     float64  `json:"call_oi"`
	PutOI      float64  `json:"put_oi"`
	CallVolume float64  `json:"call_volume"`
	PutVolume  float64  `json:"put_volume"`
	CallIV     *float64 `json:"call_iv,omitempty"`
	PutIV      *float64 `json:"put_iv,omitempty"`
	CallDelta  *float64 `json:"call_delta,omitempty"`
	PutDelta   *float64 `json:"put_delta,omitempty"`
}

// Summary is the dashboard view of a chain: the ATM window with
// directional prediction derived from OI-weighted deltas and put-call
// ratios. Pointer fields are nil when the chain lacks the inputs.
type Summary struct {
	Symbol       string      `json:"symbol"`
	Expiry       time.Time   `json:"expiry"`
	Spot         float64     `json:"spot"`
	ATMStrike    float64     `json:"atm_strike"`
	Window       []StrikeRow `json:"window_strikes"`
	PCROI        *float64    `json:"pcr_oi,omitempty"`
	PCRVolume    *float64    `json:"pcr_volume,omitempty"`
	WindowPCROI  *float64    `json:"window_pcr_oi,omitempty"`
	WindowPCRVol *float64    `json:"window_pcr_volume,omitempty"`
	NetDelta     *float64    `json:"net_delta,omitempty"`
	Prediction   string      `json:"prediction,omitempty"`
	Confidence   float64     `json:"confidence"`
}

const (
	windowHalfWidth = 5
	scoreBand       = 0.1
	confidenceCap   = 0.99
)

// Summarize builds the 11-strike dashboard summary around the ATM
// strike. Deltas are recomputed from per-strike average IV so the
// prediction does not depend on provider-supplied Greeks.
func Summarize(c *Chain, symbol string, spot float64, now time.Time) Summary {
	s := Summary{Symbol: symbol, Spot: spot}
	if c == nil || len(c.Entries) == 0 {
		return s
	}
	s.Expiry = chainExpiry(c, now)

	// Full-chain put-call ratios.
	var fullCallOI, fullPutOI, fullCallVol, fullPutVol float64
	for _, e := range c.Entries {
		if e.Side == core.SidePut {
			fullPutOI += e.OpenInterest
			fullPutVol += e.Volume
		} else {
			fullCallOI += e.OpenInterest
			fullCallVol += e.Volume
		}
	}
	s.PCROI = ratio(fullPutOI, fullCallOI)
	s.PCRVolume = ratio(fullPutVol, fullCallVol)

	if spot <= 0 {
		// Synthetic spot from the middle strike keeps the window usable.
		strikes := c.Strikes()
		if len(strikes) == 0 {
			return s
		}
		spot = strikes[len(strikes)/2]
		s.Spot = spot
	}

	atm := ATMStrike(c, spot)
	if atm == 0 {
		return s
	}
	s.ATMStrike = atm
	step := InferStep(c, atm)
	window := Window(c, atm, windowHalfWidth, step)

	dte := int(s.Expiry.Sub(now).Hours() / 24)
	if dte < 1 {
		dte = 1
	}

	var (
		totalCallOI, totalPutOI   float64
		totalCallVol, totalPutVol float64
		weightedDelta             float64
		haveDelta                 bool
	)
	for _, k := range window {
		row := StrikeRow{Strike: k}
		var callIVSum, putIVSum float64
		var callIVN, putIVN int
		for _, e := range c.Entries {
			if e.Strike != k {
				continue
			}
			if e.Side == core.SidePut {
				row.PutOI += e.OpenInterest
				row.PutVolume += e.Volume
				if e.IV > 0 {
					putIVSum += e.IV
					putIVN++
				}
			} else {
				row.CallOI += e.OpenInterest
				row.CallVolume += e.Volume
				if e.IV > 0 {
					callIVSum += e.IV
					callIVN++
				}
			}
		}
		if callIVN > 0 {
			iv := callIVSum / float64(callIVN)
			row.CallIV = &iv
			g := greeks.Compute(core.MarketSnapshot{
				Spot: spot, Strike: k, DaysToExpiry: dte, IV: iv, Side: core.SideCall,
			})
			row.CallDelta = &g.Delta
		}
		if putIVN > 0 {
			iv := putIVSum / float64(putIVN)
			row.PutIV = &iv
			g := greeks.Compute(core.MarketSnapshot{
				Spot: spot, Strike: k, DaysToExpiry: dte, IV: iv, Side: core.SidePut,
			})
			row.PutDelta = &g.Delta
		}

		if row.CallDelta != nil && row.CallOI > 0 {
			weightedDelta += *row.CallDelta * row.CallOI
			totalCallOI += row.CallOI
			haveDelta = true
		}
		if row.PutDelta != nil && row.PutOI > 0 {
			weightedDelta += *row.PutDelta * row.PutOI
			totalPutOI += row.PutOI
			haveDelta = true
		}
		totalCallVol += row.CallVolume
		totalPutVol += row.PutVolume
		s.Window = append(s.Window, row)
	}

	s.WindowPCROI = ratio(totalPutOI, totalCallOI)
	s.WindowPCRVol = ratio(totalPutVol, totalCallVol)

	if haveDelta && totalCallOI+totalPutOI > 0 {
		nd := weightedDelta / (totalCallOI + totalPutOI)
		s.NetDelta = &nd
	}

	// Net delta plus window PCR tilt: PCR below 1 reads bullish.
	score := 0.0
	if s.NetDelta != nil {
		score += *s.NetDelta
	}
	if s.WindowPCROI != nil {
		score += (1 - *s.WindowPCROI) * 0.5
	}
	switch {
	case score > scoreBand:
		s.Prediction = "BULLISH"
	case score < -scoreBand:
		s.Prediction = "BEARISH"
	default:
		s.Prediction = "NEUTRAL"
	}
	if score != 0 {
		s.Confidence = math.Min(confidenceCap, math.Abs(score)*3)
	}
	return s
}

func chainExpiry(c *Chain, now time.Time) time.Time {
	for _, e := range c.Entries {
		if !e.Expiry.IsZero() {
			return e.Expiry
		}
	}
	return now.AddDate(0, 0, 7)
}

func ratio(num, den float64) *float64 {
	if den <= 0 {
		return nil
	}
	r := num / den
	return &r
}
