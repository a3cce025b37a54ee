package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantx/pulse/internal/api/response"
	"github.com/quantx/pulse/internal/chain"
)

func newDashboardHandler() *DashboardHandler {
	fixed := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	resolver := chain.NewResolver([]chain.Provider{
		chain.NewSynthetic(map[string]float64{"NIFTY": 20000}).WithClock(func() time.Time { return fixed }),
	})
	return NewDashboardHandler(resolver).WithClock(func() time.Time { return fixed })
}

func TestDashboardHandler_Summary(t *testing.T) {
	h := newDashboardHandler()

	req := httptest.NewRequest("GET", "/api/dashboard?symbol=NIFTY", nil)
	w := httptest.NewRecorder()
	h.Summary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)

	if data["symbol"] != "NIFTY" {
		t.Errorf("symbol = %v, want NIFTY", data["symbol"])
	}
	if got := data["spot"].(float64); got != 20000 {
		t.Errorf("spot = %v, want 20000", got)
	}
	if got := data["atm_strike"].(float64); got != 20000 {
		t.Errorf("atm_strike = %v, want 20000", got)
	}
	window := data["window_strikes"].([]any)
	if len(window) != 11 {
		t.Errorf("window has %d strikes, want 11", len(window))
	}
	pred := data["prediction"].(string)
	switch pred {
	case "BULLISH", "BEARISH", "NEUTRAL":
	default:
		t.Errorf("unexpected prediction %q", pred)
	}
}

func TestDashboardHandler_Summary_Deterministic(t *testing.T) {
	h := newDashboardHandler()

	var bodies [2]string
	for i := range bodies {
		req := httptest.NewRequest("GET", "/api/dashboard?symbol=NIFTY", nil)
		w := httptest.NewRecorder()
		h.Summary(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp response.SuccessResponse
		json.Unmarshal(w.Body.Bytes(), &resp)
		data, _ := json.Marshal(resp.Data)
		bodies[i] = string(data)
	}
	if bodies[0] != bodies[1] {
		t.Error("expected identical summaries for the same symbol and clock")
	}
}

func TestDashboardHandler_Summary_MissingSymbol(t *testing.T) {
	h := newDashboardHandler()

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	w := httptest.NewRecorder()
	h.Summary(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDashboardHandler_Summary_UnconfiguredSymbolFallsBack(t *testing.T) {
	h := newDashboardHandler()

	// Synthetic serves any symbol at its default spot.
	req := httptest.NewRequest("GET", "/api/dashboard?symbol=BANKNIFTY", nil)
	w := httptest.NewRecorder()
	h.Summary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if got := data["spot"].(float64); got != 20000 {
		t.Errorf("spot = %v, want synthetic default", got)
	}
}
