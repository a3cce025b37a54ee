package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quantx/pulse/internal/api/response"
	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/metrics"
	"github.com/quantx/pulse/internal/probability"
)

func newAnalytics(t *testing.T) *AnalyticsHandler {
	t.Helper()
	return NewAnalyticsHandler(probability.NewDefaultSuite(), metrics.NewRegistry())
}

func validSnapshotJSON() string {
	return `{"spot":20000,"strike":20100,"days_to_expiry":7,"iv":0.18,"side":"CALL","rate":0.06}`
}

func TestAnalyticsHandler_Probability(t *testing.T) {
	h := newAnalytics(t)

	req := httptest.NewRequest("POST", "/api/probability", strings.NewReader(validSnapshotJSON()))
	w := httptest.NewRecorder()
	h.Probability(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data := resp.Data.(map[string]any)
	models := data["models"].(map[string]any)
	for name, v := range models {
		p := v.(float64)
		if p < 0 || p > 1 {
			t.Errorf("model %s probability out of range: %v", name, p)
		}
	}
	if len(models) == 0 {
		t.Error("expected at least one model probability")
	}
}

func TestAnalyticsHandler_Probability_InvalidSnapshot(t *testing.T) {
	h := newAnalytics(t)

	body := `{"spot":0,"strike":20100,"days_to_expiry":7,"iv":0.18,"side":"CALL"}`
	req := httptest.NewRequest("POST", "/api/probability", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Probability(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp response.ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INVALID_SNAPSHOT" {
		t.Errorf("expected INVALID_SNAPSHOT, got %q", resp.Error.Code)
	}
}

func TestAnalyticsHandler_Probability_BadJSON(t *testing.T) {
	h := newAnalytics(t)

	req := httptest.NewRequest("POST", "/api/probability", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Probability(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAnalyticsHandler_Greeks(t *testing.T) {
	h := newAnalytics(t)

	req := httptest.NewRequest("POST", "/api/greeks", strings.NewReader(validSnapshotJSON()))
	w := httptest.NewRecorder()
	h.Greeks(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	price := data["price"].(float64)
	if price <= 0 {
		t.Errorf("expected positive option price, got %v", price)
	}
	delta := data["delta"].(float64)
	if delta <= 0 || delta >= 1 {
		t.Errorf("call delta out of range: %v", delta)
	}
}

func TestAnalyticsHandler_Volatility(t *testing.T) {
	h := newAnalytics(t)

	body := `{"spot":20000,"strike":20000,"option_price":250,"days_to_expiry":7,"side":"CALL","rate":0.06,"returns":[0.01,-0.005,0.002,0.008,-0.003],"iv_history":[0.12,0.15,0.18,0.2,0.22]}`
	req := httptest.NewRequest("POST", "/api/volatility", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Volatility(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if data["iv"].(float64) <= 0 {
		t.Errorf("expected solved IV > 0, got %v", data["iv"])
	}
	if data["hv"].(float64) <= 0 {
		t.Errorf("expected HV > 0, got %v", data["hv"])
	}
}

func TestAnalyticsHandler_Volatility_Invalid(t *testing.T) {
	h := newAnalytics(t)

	body := `{"spot":0,"strike":20000,"option_price":250,"days_to_expiry":7,"side":"CALL"}`
	req := httptest.NewRequest("POST", "/api/volatility", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Volatility(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAnalyticsHandler_OI(t *testing.T) {
	h := newAnalytics(t)

	body := `{"oi_series":[100,110,120,130,150],"volume_series":[50,60,55,70,90],"put_oi":1500,"call_oi":1000,"put_volume":400,"call_volume":800}`
	req := httptest.NewRequest("POST", "/api/oi", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.OI(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if got := data["pcr_oi"].(float64); got != 1.5 {
		t.Errorf("pcr_oi = %v, want 1.5", got)
	}
	if got := data["pcr_volume"].(float64); got != 0.5 {
		t.Errorf("pcr_volume = %v, want 0.5", got)
	}
}

func TestAnalyticsHandler_Market(t *testing.T) {
	h := newAnalytics(t)

	high := make([]float64, 30)
	low := make([]float64, 30)
	cls := make([]float64, 30)
	vol := make([]float64, 30)
	for i := range high {
		base := 100.0 + float64(i)
		high[i] = base + 1
		low[i] = base - 1
		cls[i] = base
		vol[i] = 1000
	}
	body, _ := json.Marshal(core.PriceHistory{High: high, Low: low, Close: cls, Volume: vol})

	req := httptest.NewRequest("POST", "/api/market", strings.NewReader(string(body)))
	w := httptest.NewRecorder()
	h.Market(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if data["trend_signal"] != "UP" {
		t.Errorf("trend_signal = %v, want UP for rising closes", data["trend_signal"])
	}
}

func TestAnalyticsHandler_Consensus(t *testing.T) {
	h := newAnalytics(t)

	body := `{
		"snapshot": {"spot":20000,"strike":20100,"days_to_expiry":7,"iv":0.18,"side":"CALL","rate":0.06},
		"option_price": 180,
		"returns": [0.01,-0.005,0.002,0.008,-0.003],
		"iv_history": [0.12,0.15,0.18,0.2,0.22],
		"oi_series": [100,110,120,130,150],
		"volume_series": [50,60,55,70,90],
		"put_oi": 1500, "call_oi": 1000,
		"put_volume": 400, "call_volume": 800
	}`
	req := httptest.NewRequest("POST", "/api/consensus", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Consensus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)

	cons := data["consensus"].(map[string]any)
	conf := cons["confidence_score"].(float64)
	if conf < 0 || conf > 100 {
		t.Errorf("confidence out of range: %v", conf)
	}

	for _, key := range []string{"probability", "greeks", "volatility", "oi", "market"} {
		if _, ok := data[key]; !ok {
			t.Errorf("consensus response missing %q", key)
		}
	}
}

func TestAnalyticsHandler_Consensus_InvalidSnapshot(t *testing.T) {
	h := newAnalytics(t)

	body := `{"snapshot":{"spot":20000,"strike":20100,"days_to_expiry":7,"iv":0.18,"side":"SIDEWAYS"}}`
	req := httptest.NewRequest("POST", "/api/consensus", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Consensus(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
