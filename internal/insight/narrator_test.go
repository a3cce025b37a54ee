package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quantx/pulse/internal/core"
)

type stubProvider struct {
	content string
	err     error
	lastReq ChatRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Chat(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &ChatResponse{Content: s.content}, nil
}

func snapshot() core.MarketSnapshot {
	return core.MarketSnapshot{
		Spot: 20000, Strike: 20100, DaysToExpiry: 7, IV: 0.18, Side: core.SideCall,
	}
}

func TestSummarize(t *testing.T) {
	stub := &stubProvider{content: "  Mildly bullish read.  "}
	n := NewNarrator(stub)

	prob := core.ProbabilityResult{
		Models:       map[string]float64{"d2": 0.42, "monte_carlo": 0.44},
		Failed:       []string{"heston"},
		ExpectedMove: 498.0,
	}
	text, err := n.Summarize(context.Background(), snapshot(), core.ConsensusScore{Confidence: 55}, prob)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if text != "Mildly bullish read." {
		t.Errorf("got %q, want trimmed content", text)
	}

	prompt := stub.lastReq.Messages[0].Content
	for _, want := range []string{"20100.00", "d2=0.420", "monte_carlo=0.440", "heston", "498.00"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if stub.lastReq.SystemPrompt == "" {
		t.Error("system prompt not set")
	}
}

func TestSummarizeDisabled(t *testing.T) {
	n := NewNarrator(nil)

	if n.Enabled() {
		t.Error("narrator with nil provider reports enabled")
	}
	_, err := n.Summarize(context.Background(), snapshot(), core.ConsensusScore{}, core.ProbabilityResult{})
	if !errors.Is(err, core.ErrInsightDisabled) {
		t.Errorf("got %v, want ErrInsightDisabled", err)
	}
}

func TestSummarizeProviderFailure(t *testing.T) {
	n := NewNarrator(&stubProvider{err: errors.New("rate limited")})

	_, err := n.Summarize(context.Background(), snapshot(), core.ConsensusScore{}, core.ProbabilityResult{})
	if !errors.Is(err, core.ErrInsightFailed) {
		t.Errorf("got %v, want ErrInsightFailed", err)
	}
}

func TestSummarizeEmptyResponse(t *testing.T) {
	n := NewNarrator(&stubProvider{content: "   "})

	_, err := n.Summarize(context.Background(), snapshot(), core.ConsensusScore{}, core.ProbabilityResult{})
	if !errors.Is(err, core.ErrInsightFailed) {
		t.Errorf("got %v, want ErrInsightFailed", err)
	}
}
