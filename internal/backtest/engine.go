// Package backtest replays a strategy's actions over a historical price
// series with a fee-and-slippage cost model.
package backtest

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantx/pulse/internal/core"
)

// tradeCadence places trades on every Nth price sample.
const tradeCadence = 10

// notionalScale nudges equity by direction*quantity*price*notionalScale per
// trade. A fixed scaling factor, not a full position-tracking model.
const notionalScale = 0.001

// Costs is the execution cost model: BUY pays the fee and slippage on top
// of the market price, SELL receives less.
type Costs struct {
	FeeFraction float64
	SlippageBPS float64
}

// DefaultCosts returns the standard cost model.
func DefaultCosts() Costs {
	return Costs{FeeFraction: 0.0005, SlippageBPS: 1.0}
}

// Engine runs deterministic backtests.
type Engine struct {
	costs  Costs
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a backtest engine with the given cost model.
func NewEngine(costs Costs, logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{costs: costs, logger: l, now: time.Now}
}

// WithClock replaces the engine's clock for trade timestamps.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Run replays the strategy's actions over the price series: one trade per
// action at every tenth sample, at the cost-adjusted execution price. The
// equity curve starts at the initial capital.
func (e *Engine) Run(def core.StrategyDefinition, symbol string, prices []float64, initialCapital float64) core.BacktestResult {
	at := e.now().UTC()
	var trades []core.Trade
	for i, price := range prices {
		if i%tradeCadence != 0 {
			continue
		}
		for _, a := range def.Actions {
			trades = append(trades, core.Trade{
				Time:     at,
				Symbol:   a.Instrument,
				Side:     a.Side,
				Quantity: a.Quantity,
				Price:    e.executionPrice(price, a.Side),
				PnL:      0,
			})
		}
	}

	curve := equityCurve(initialCapital, trades)
	stats := ComputeStats(curve)

	e.logger.Debug("backtest complete",
		zap.String("strategy", def.Name),
		zap.String("symbol", symbol),
		zap.Int("trades", len(trades)),
		zap.Float64("final_equity", curve[len(curve)-1]),
	)

	return core.BacktestResult{
		ID:           "bt_" + uuid.NewString(),
		Symbol:       symbol,
		StrategyName: def.Name,
		EquityCurve:  curve,
		Trades:       trades,
		Stats:        stats,
	}
}

// executionPrice applies the fee and slippage in the direction that hurts.
func (e *Engine) executionPrice(price float64, side core.TradeSide) float64 {
	fee := price * e.costs.FeeFraction
	slip := price * e.costs.SlippageBPS / 10000.0
	if side == core.TradeBuy {
		return price + fee + slip
	}
	return price - fee - slip
}

// equityCurve starts at the initial capital and nudges it per trade by the
// scaled signed notional.
func equityCurve(initialCapital float64, trades []core.Trade) []float64 {
	equity := initialCapital
	curve := make([]float64, 0, len(trades)+1)
	curve = append(curve, equity)
	for _, t := range trades {
		direction := 1.0
		if t.Side == core.TradeSell {
			direction = -1.0
		}
		equity += direction * float64(t.Quantity) * t.Price * notionalScale
		curve = append(curve, equity)
	}
	return curve
}
