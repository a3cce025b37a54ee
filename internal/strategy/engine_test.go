package strategy

import (
	"testing"
	"time"

	"github.com/quantx/pulse/internal/core"
)

func definition() core.StrategyDefinition {
	return core.StrategyDefinition{
		Name: "pcr_fade",
		Conditions: []core.Condition{
			{Indicator: "pcr_oi", Operator: "<", Threshold: 0.7},
		},
		Actions: []core.Action{
			{Side: core.TradeBuy, Quantity: 50, Instrument: "NIFTY24SEPCE"},
		},
	}
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 2, hour, 30, 0, 0, time.UTC)
	}
}

func TestRunSkipsWhenConditionFails(t *testing.T) {
	engine := NewEngine()
	ctx := Context{"pcr_oi": 1.25, "price": 110.5}

	decision := engine.Run(definition(), ctx)

	if decision.Executed {
		t.Error("pcr_oi 1.25 against < 0.7 should skip")
	}
	if len(decision.Trades) != 0 {
		t.Errorf("skip produced %d trades, want 0", len(decision.Trades))
	}
}

func TestRunExecutesAndSynthesizesTrades(t *testing.T) {
	engine := NewEngine()
	ctx := Context{"pcr_oi": 0.55, "price": 110.5}

	decision := engine.Run(definition(), ctx)

	if !decision.Executed {
		t.Fatal("all conditions hold; expected execute")
	}
	if len(decision.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(decision.Trades))
	}
	trade := decision.Trades[0]
	if trade.Symbol != "NIFTY24SEPCE" || trade.Side != core.TradeBuy || trade.Quantity != 50 {
		t.Errorf("trade = %+v, want the action's fields", trade)
	}
	if trade.Price != 110.5 {
		t.Errorf("trade price = %v, want context price 110.5", trade.Price)
	}
	if trade.PnL != 0 {
		t.Errorf("trade PnL = %v, want 0 at creation", trade.PnL)
	}
}

func TestConditionsAreANDed(t *testing.T) {
	def := definition()
	def.Conditions = append(def.Conditions, core.Condition{Indicator: "iv_rank", Operator: ">", Threshold: 60})
	engine := NewEngine()

	// First condition holds, second fails.
	decision := engine.Run(def, Context{"pcr_oi": 0.5, "iv_rank": 40, "price": 100})
	if decision.Executed {
		t.Error("one failed condition must skip the strategy")
	}

	decision = engine.Run(def, Context{"pcr_oi": 0.5, "iv_rank": 75, "price": 100})
	if !decision.Executed {
		t.Error("both conditions hold; expected execute")
	}
}

func TestOperators(t *testing.T) {
	engine := NewEngine()
	cases := []struct {
		operator  string
		value     float64
		threshold float64
		want      bool
	}{
		{">", 2, 1, true},
		{">", 1, 1, false},
		{"<", 1, 2, true},
		{">=", 1, 1, true},
		{"<=", 1, 1, true},
		{"==", 1.5, 1.5, true},
		{"==", 1.5, 1.4, false},
		{"!=", 1.5, 1.4, true},
		{"??", 5, 1, false}, // unknown operator rejects
	}
	for _, tc := range cases {
		def := definition()
		def.Conditions = []core.Condition{{Indicator: "x", Operator: tc.operator, Threshold: tc.threshold}}
		decision := engine.Run(def, Context{"x": tc.value, "price": 100})
		if decision.Executed != tc.want {
			t.Errorf("%v %s %v: executed = %v, want %v", tc.value, tc.operator, tc.threshold, decision.Executed, tc.want)
		}
	}
}

func TestUnknownIndicatorDefaultsToZero(t *testing.T) {
	def := definition()
	def.Conditions = []core.Condition{{Indicator: "missing", Operator: "<", Threshold: 1}}
	engine := NewEngine()

	// missing resolves to 0.0, and 0 < 1 holds.
	decision := engine.Run(def, Context{"price": 100})
	if !decision.Executed {
		t.Error("unknown indicator should read as 0.0, satisfying < 1")
	}
}

func TestMinVolumeFilter(t *testing.T) {
	def := definition()
	def.Filters = []core.Filter{{Name: "min_volume", Params: map[string]any{"value": 1000.0}}}
	engine := NewEngine()

	decision := engine.Run(def, Context{"pcr_oi": 0.5, "price": 100, "volume": 500})
	if decision.Executed {
		t.Error("volume below minimum should skip")
	}

	decision = engine.Run(def, Context{"pcr_oi": 0.5, "price": 100, "volume": 2000})
	if !decision.Executed {
		t.Error("volume above minimum should pass")
	}
}

func TestSessionFilter(t *testing.T) {
	def := definition()
	def.Filters = []core.Filter{{Name: "session", Params: map[string]any{"value": "opening"}}}

	late := NewEngine().WithClock(fixedClock(14))
	if late.Run(def, Context{"pcr_oi": 0.5, "price": 100}).Executed {
		t.Error("opening session filter should skip in the afternoon")
	}

	early := NewEngine().WithClock(fixedClock(9))
	if !early.Run(def, Context{"pcr_oi": 0.5, "price": 100}).Executed {
		t.Error("opening session filter should pass in the morning")
	}
}

func TestUnknownFilterPasses(t *testing.T) {
	def := definition()
	def.Filters = []core.Filter{{Name: "lunar_phase", Params: map[string]any{"value": "full"}}}
	engine := NewEngine()

	if !engine.Run(def, Context{"pcr_oi": 0.5, "price": 100}).Executed {
		t.Error("unknown filters must not block execution")
	}
}

func TestValidate(t *testing.T) {
	engine := NewEngine()

	if err := engine.Validate(definition()); err != nil {
		t.Errorf("valid definition rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*core.StrategyDefinition)
	}{
		{"empty name", func(d *core.StrategyDefinition) { d.Name = "" }},
		{"no actions", func(d *core.StrategyDefinition) { d.Actions = nil }},
		{"bad operator", func(d *core.StrategyDefinition) { d.Conditions[0].Operator = "=>" }},
		{"bad side", func(d *core.StrategyDefinition) { d.Actions[0].Side = "HOLD" }},
		{"zero quantity", func(d *core.StrategyDefinition) { d.Actions[0].Quantity = 0 }},
		{"empty instrument", func(d *core.StrategyDefinition) { d.Actions[0].Instrument = "" }},
	}
	for _, tc := range cases {
		def := definition()
		tc.mutate(&def)
		if err := engine.Validate(def); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestMultiActionExecution(t *testing.T) {
	def := definition()
	def.Actions = append(def.Actions, core.Action{Side: core.TradeSell, Quantity: 50, Instrument: "NIFTY24SEPPE"})
	engine := NewEngine()

	decision := engine.Run(def, Context{"pcr_oi": 0.5, "price": 100})
	if len(decision.Trades) != 2 {
		t.Fatalf("got %d trades, want one per action", len(decision.Trades))
	}
	if decision.Trades[1].Side != core.TradeSell {
		t.Errorf("second trade side = %v, want SELL", decision.Trades[1].Side)
	}
}
