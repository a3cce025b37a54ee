package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quantx/pulse/internal/api/response"
	"github.com/quantx/pulse/internal/backtest"
	"github.com/quantx/pulse/internal/metrics"
	"github.com/quantx/pulse/internal/storage/archive"
	"github.com/quantx/pulse/internal/storage/memory"
	"github.com/quantx/pulse/internal/strategy"
)

func newBacktestHandler(t *testing.T) (*BacktestHandler, *memory.BacktestStore, *archive.Results) {
	t.Helper()
	store := memory.NewBacktestStore(10)
	fs, err := archive.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("localfs: %v", err)
	}
	results := archive.NewResults(fs)
	h := NewBacktestHandler(
		backtest.NewEngine(backtest.Costs{FeeFraction: 0.0005, SlippageBPS: 1}),
		strategy.NewEngine(),
		store,
		memory.NewStrategyStore(),
		results,
		metrics.NewRegistry(),
		100000,
	)
	return h, store, results
}

func backtestBody() string {
	return `{
		"strategy": {
			"name": "always-buy",
			"conditions": [],
			"actions": [{"side":"BUY","quantity":1,"instrument":"NIFTY-CE"}]
		},
		"symbol": "NIFTY",
		"prices": [100,101,102,103,104,105,106,107,108,109,110,111,112,113,114,115,116,117,118,119,120]
	}`
}

func TestBacktestHandler_Create(t *testing.T) {
	h, store, _ := newBacktestHandler(t)

	req := httptest.NewRequest("POST", "/api/backtest", strings.NewReader(backtestBody()))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	id := data["id"].(string)
	if !strings.HasPrefix(id, "bt_") {
		t.Errorf("result id = %q, want bt_ prefix", id)
	}
	curve := data["equity_curve"].([]any)
	if curve[0].(float64) != 100000 {
		t.Errorf("curve starts at %v, want default capital", curve[0])
	}

	if _, err := store.Get(context.Background(), id); err != nil {
		t.Errorf("result not in memory store: %v", err)
	}
}

func TestBacktestHandler_Create_Archives(t *testing.T) {
	h, _, results := newBacktestHandler(t)

	req := httptest.NewRequest("POST", "/api/backtest", strings.NewReader(backtestBody()))
	w := httptest.NewRecorder()
	h.Create(w, req)

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	id := resp.Data.(map[string]any)["id"].(string)

	if _, err := results.LoadBacktest(context.Background(), id); err != nil {
		t.Errorf("result not archived: %v", err)
	}
}

func TestBacktestHandler_Create_MissingSymbol(t *testing.T) {
	h, _, _ := newBacktestHandler(t)

	body := `{"strategy":{"name":"s","actions":[{"side":"BUY","quantity":1,"instrument":"X"}]},"prices":[1,2,3]}`
	req := httptest.NewRequest("POST", "/api/backtest", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBacktestHandler_Create_NoStrategy(t *testing.T) {
	h, _, _ := newBacktestHandler(t)

	body := `{"symbol":"NIFTY","prices":[1,2,3]}`
	req := httptest.NewRequest("POST", "/api/backtest", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBacktestHandler_Get_NotFound(t *testing.T) {
	h, _, _ := newBacktestHandler(t)

	req := httptest.NewRequest("GET", "/api/backtest/bt_missing", nil)
	w := httptest.NewRecorder()
	h.Get(w, req, "bt_missing")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	var resp response.ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %q", resp.Error.Code)
	}
}

func TestBacktestHandler_Get_ArchiveFallback(t *testing.T) {
	h, store, _ := newBacktestHandler(t)

	// Run one backtest, then drop it from memory so Get must hit the archive.
	req := httptest.NewRequest("POST", "/api/backtest", strings.NewReader(backtestBody()))
	w := httptest.NewRecorder()
	h.Create(w, req)

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	id := resp.Data.(map[string]any)["id"].(string)

	for i := 0; i < 10; i++ {
		other := httptest.NewRecorder()
		h.Create(other, httptest.NewRequest("POST", "/api/backtest", strings.NewReader(backtestBody())))
	}
	if _, err := store.Get(context.Background(), id); err == nil {
		t.Fatal("expected first result trimmed from memory")
	}

	w = httptest.NewRecorder()
	h.Get(w, httptest.NewRequest("GET", "/api/backtest/"+id, nil), id)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from archive fallback, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBacktestHandler_List(t *testing.T) {
	h, _, _ := newBacktestHandler(t)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.Create(w, httptest.NewRequest("POST", "/api/backtest", strings.NewReader(backtestBody())))
	}

	req := httptest.NewRequest("GET", "/api/backtest", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	results := resp.Data.([]any)
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}
