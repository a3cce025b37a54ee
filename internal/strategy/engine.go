// Package strategy evaluates user-authored rule sets against an indicator
// context and synthesizes trade intents.
package strategy

import (
	"time"

	"go.uber.org/zap"

	"github.com/quantx/pulse/internal/core"
)

// Decision is the terminal outcome of one strategy evaluation: EXECUTE with
// synthesized trades, or SKIP with none.
type Decision struct {
	Executed bool         `json:"executed"`
	Trades   []core.Trade `json:"trades"`
}

// Engine runs strategy evaluations. The clock is injectable so the session
// filter is testable.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a strategy engine.
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{logger: l, now: time.Now}
}

// WithClock replaces the engine's clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Validate rejects malformed definitions at the boundary so the evaluator
// itself never has to fail.
func (e *Engine) Validate(def core.StrategyDefinition) error {
	if def.Name == "" {
		return core.ErrStrategyInvalid
	}
	if len(def.Actions) == 0 {
		return core.ErrStrategyInvalid
	}
	for _, c := range def.Conditions {
		switch c.Operator {
		case ">", "<", ">=", "<=", "==", "!=":
		default:
			return core.ErrStrategyInvalid
		}
	}
	for _, a := range def.Actions {
		if !a.Side.IsValid() || a.Quantity <= 0 || a.Instrument == "" {
			return core.ErrStrategyInvalid
		}
	}
	return nil
}

// Run evaluates the definition against the context. A strategy executes iff
// every condition holds and every filter passes; on execute one trade is
// synthesized per action at the context price with zero PnL.
func (e *Engine) Run(def core.StrategyDefinition, ctx Context) Decision {
	for _, c := range def.Conditions {
		if !evalCondition(c, ctx) {
			e.logger.Debug("condition rejected strategy",
				zap.String("strategy", def.Name),
				zap.String("indicator", c.Indicator),
				zap.String("operator", c.Operator),
			)
			return Decision{Executed: false}
		}
	}
	if !e.applyFilters(def.Filters, ctx) {
		return Decision{Executed: false}
	}

	now := e.now().UTC()
	price := ctx.Price()
	trades := make([]core.Trade, 0, len(def.Actions))
	for _, a := range def.Actions {
		trades = append(trades, core.Trade{
			Time:     now,
			Symbol:   a.Instrument,
			Side:     a.Side,
			Quantity: a.Quantity,
			Price:    price,
			PnL:      0,
		})
	}
	return Decision{Executed: true, Trades: trades}
}

// evalCondition compares the context value against the threshold. Unknown
// operators reject.
func evalCondition(c core.Condition, ctx Context) bool {
	value := ctx.Get(c.Indicator)
	switch c.Operator {
	case ">":
		return value > c.Threshold
	case "<":
		return value < c.Threshold
	case ">=":
		return value >= c.Threshold
	case "<=":
		return value <= c.Threshold
	case "==":
		return value == c.Threshold
	case "!=":
		return value != c.Threshold
	default:
		return false
	}
}

// applyFilters runs the named predicates. Unknown filter names pass.
func (e *Engine) applyFilters(filters []core.Filter, ctx Context) bool {
	for _, f := range filters {
		switch f.Name {
		case "min_volume":
			if ctx.Volume() < paramFloat(f.Params, "value") {
				return false
			}
		case "session":
			if session, _ := f.Params["value"].(string); session == "opening" {
				if e.now().UTC().Hour() > 10 {
					return false
				}
			}
		}
	}
	return true
}

// paramFloat extracts a numeric filter parameter; JSON decoding hands all
// numbers over as float64 but direct callers may pass ints.
func paramFloat(params map[string]any, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
