package core

import "time"

// OptionSide represents the side of an option contract
type OptionSide string

const (
	SideCall OptionSide = "CALL"
	SidePut  OptionSide = "PUT"
)

// IsValid checks the side is one of the known values
func (s OptionSide) IsValid() bool {
	return s == SideCall || s == SidePut
}

// TradeSide represents the direction of a trade
type TradeSide string

const (
	TradeBuy  TradeSide = "BUY"
	TradeSell TradeSide = "SELL"
)

// IsValid checks the trade side is one of the known values
func (s TradeSide) IsValid() bool {
	return s == TradeBuy || s == TradeSell
}

// TrendDirection classifies a price trend
type TrendDirection string

const (
	TrendUp       TrendDirection = "UP"
	TrendDown     TrendDirection = "DOWN"
	TrendSideways TrendDirection = "SIDEWAYS"
)

// OITrend classifies an open-interest trend
type OITrend string

const (
	OIRising  OITrend = "rising"
	OIFalling OITrend = "falling"
	OIFlat    OITrend = "flat"
)

// MarketRegime classifies the prevailing market regime
type MarketRegime string

const (
	RegimeBull     MarketRegime = "BULL"
	RegimeBear     MarketRegime = "BEAR"
	RegimeRange    MarketRegime = "RANGE"
	RegimeVolatile MarketRegime = "VOLATILE"
)

// VWAPSignal classifies the last price relative to VWAP
type VWAPSignal string

const (
	VWAPAbove   VWAPSignal = "above_vwap"
	VWAPBelow   VWAPSignal = "below_vwap"
	VWAPNear    VWAPSignal = "near_vwap"
	VWAPNeutral VWAPSignal = "neutral"
)

// MarketSnapshot is the immutable input to a single option evaluation
type MarketSnapshot struct {
	Spot         float64    `json:"spot"`
	Strike       float64    `json:"strike"`
	DaysToExpiry int        `json:"days_to_expiry"`
	IV           float64    `json:"iv"`
	Side         OptionSide `json:"side"`
	Rate         float64    `json:"rate"`
}

// Validate reports whether the snapshot is usable at the API boundary.
// The numeric core itself never fails on degenerate values; this is the
// user-facing validation layer.
func (m MarketSnapshot) Validate() error {
	if m.Spot <= 0 || m.Strike <= 0 || m.IV <= 0 {
		return ErrInvalidSnapshot
	}
	if !m.Side.IsValid() {
		return ErrInvalidSnapshot
	}
	return nil
}

// ProbabilityResult holds per-model ITM probabilities. Models that could not
// be evaluated are listed in Failed and absent from Models.
type ProbabilityResult struct {
	Models       map[string]float64 `json:"models"`
	Failed       []string           `json:"failed,omitempty"`
	ExpectedMove float64            `json:"expected_move"`
}

// Get returns the probability for a model name and whether it was computed
func (p ProbabilityResult) Get(model string) (float64, bool) {
	v, ok := p.Models[model]
	return v, ok
}

// GreeksResult holds the option price and its five sensitivities
type GreeksResult struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// VolatilityMetrics holds solved and descriptive volatility measures
type VolatilityMetrics struct {
	IV           float64 `json:"iv"`
	HV           float64 `json:"hv"`
	IVRank       float64 `json:"iv_rank"`
	IVPercentile float64 `json:"iv_percentile"`
}

// OIMetrics holds open-interest analytics for one symbol. PCR fields are nil
// when the denominator side has no interest.
type OIMetrics struct {
	SpikeScore    float64  `json:"spike_score"`
	VolumeOIRatio float64  `json:"volume_oi_ratio"`
	Trend         OITrend  `json:"trend"`
	AnomalyScore  float64  `json:"anomaly_score"`
	PCROI         *float64 `json:"pcr_oi,omitempty"`
	PCRVolume     *float64 `json:"pcr_volume,omitempty"`
}

// MarketRegimeMetrics holds trend and regime analytics over a price history
type MarketRegimeMetrics struct {
	ATRTrend           TrendDirection `json:"atr_trend"`
	VWAPSignal         VWAPSignal     `json:"vwap_signal"`
	BollingerBandwidth float64        `json:"bollinger_bandwidth"`
	TrendSignal        TrendDirection `json:"trend_signal"`
	MeanReversionScore float64        `json:"mean_reversion_score"`
	Regime             MarketRegime   `json:"regime"`
}

// ConsensusScore is the fused 0-100 confidence with its sub-scores
type ConsensusScore struct {
	Confidence   float64 `json:"confidence_score"`
	Probability  float64 `json:"probability_score"`
	Volatility   float64 `json:"volatility_score"`
	OpenInterest float64 `json:"oi_score"`
	Market       float64 `json:"market_score"`
}

// PriceHistory is a caller-supplied bar series for market analytics
type PriceHistory struct {
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []float64 `json:"volume"`
}

// Condition is a single indicator comparison within a strategy
type Condition struct {
	Indicator string  `json:"indicator"`
	Operator  string  `json:"operator"`
	Threshold float64 `json:"threshold"`
}

// Filter is a named predicate over the evaluation context
type Filter struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Action describes the trade to synthesize when a strategy executes
type Action struct {
	Side       TradeSide `json:"side"`
	Quantity   int       `json:"quantity"`
	Instrument string    `json:"instrument"`
}

// ExitRule describes how a position should be unwound
type ExitRule struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// StrategyDefinition is a user-authored rule set. It is immutable once
// submitted for evaluation.
type StrategyDefinition struct {
	Name       string      `json:"name"`
	Mode       string      `json:"mode,omitempty"`
	Conditions []Condition `json:"conditions"`
	Filters    []Filter    `json:"filters,omitempty"`
	Actions    []Action    `json:"actions"`
	Exits      []ExitRule  `json:"exits,omitempty"`
	MultiLeg   bool        `json:"multi_leg,omitempty"`
}

// Trade is a synthesized trade intent. PnL is 0 at creation; attribution is
// the caller's responsibility.
type Trade struct {
	Time     time.Time `json:"time"`
	Symbol   string    `json:"symbol"`
	Side     TradeSide `json:"side"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
	PnL      float64   `json:"pnl"`
}

// BacktestStats holds performance statistics over an equity curve
type BacktestStats struct {
	TotalTrades  int     `json:"total_trades"`
	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	Sharpe       float64 `json:"sharpe"`
}

// BacktestResult is the complete output of one backtest run
type BacktestResult struct {
	ID           string        `json:"id"`
	Symbol       string        `json:"symbol"`
	StrategyName string        `json:"strategy_name"`
	EquityCurve  []float64     `json:"equity_curve"`
	Trades       []Trade       `json:"trades"`
	Stats        BacktestStats `json:"stats"`
}
