package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quantx/pulse/internal/api/response"
	"github.com/quantx/pulse/internal/insight"
)

type fixedProvider struct {
	reply string
	err   error
}

func (p *fixedProvider) Name() string { return "fixed" }

func (p *fixedProvider) Chat(_ context.Context, _ insight.ChatRequest) (*insight.ChatResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &insight.ChatResponse{Content: p.reply}, nil
}

func consensusBody() string {
	return `{"snapshot":{"spot":20000,"strike":20100,"days_to_expiry":7,"iv":0.18,"side":"CALL","rate":0.06}}`
}

func TestInsightHandler_Narrate(t *testing.T) {
	narrator := insight.NewNarrator(&fixedProvider{reply: "Mildly bullish setup."})
	h := NewInsightHandler(newAnalytics(t), narrator)

	req := httptest.NewRequest("POST", "/api/insight", strings.NewReader(consensusBody()))
	w := httptest.NewRecorder()
	h.Narrate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if data["insight"] != "Mildly bullish setup." {
		t.Errorf("insight = %v", data["insight"])
	}
	if _, ok := data["evaluation"].(map[string]any)["consensus"]; !ok {
		t.Error("expected embedded evaluation with consensus")
	}
}

func TestInsightHandler_Narrate_Disabled(t *testing.T) {
	h := NewInsightHandler(newAnalytics(t), insight.NewNarrator(nil))

	req := httptest.NewRequest("POST", "/api/insight", strings.NewReader(consensusBody()))
	w := httptest.NewRecorder()
	h.Narrate(w, req)

	if w.Code != http.StatusNotImplemented {
		t.Errorf("expected 501 when narration disabled, got %d", w.Code)
	}

	var resp response.ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INSIGHT_DISABLED" {
		t.Errorf("expected INSIGHT_DISABLED, got %q", resp.Error.Code)
	}
}

func TestInsightHandler_Narrate_ProviderError(t *testing.T) {
	narrator := insight.NewNarrator(&fixedProvider{err: context.DeadlineExceeded})
	h := NewInsightHandler(newAnalytics(t), narrator)

	req := httptest.NewRequest("POST", "/api/insight", strings.NewReader(consensusBody()))
	w := httptest.NewRecorder()
	h.Narrate(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestInsightHandler_Narrate_InvalidSnapshot(t *testing.T) {
	h := NewInsightHandler(newAnalytics(t), insight.NewNarrator(&fixedProvider{reply: "x"}))

	body := `{"snapshot":{"spot":-1}}`
	req := httptest.NewRequest("POST", "/api/insight", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Narrate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
