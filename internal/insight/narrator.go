package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/quantx/pulse/internal/core"
)

const narratorSystemPrompt = `You are an options analyst. You receive model outputs for a single
option contract and write a short plain-text read of them. Two or three
sentences, no markdown, no advice disclaimers.`

// Narrator turns model outputs into a short plain-text commentary via
// a chat provider. A nil provider means narration is disabled.
type Narrator struct {
	provider Provider
	logger   *zap.Logger
}

// NewNarrator creates a narrator over the given provider, which may be
// nil when narration is disabled.
func NewNarrator(provider Provider, logger ...*zap.Logger) *Narrator {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Narrator{provider: provider, logger: l}
}

// Enabled reports whether a provider is configured
func (n *Narrator) Enabled() bool {
	return n.provider != nil
}

// Summarize asks the provider for a short commentary on one evaluated
// contract.
func (n *Narrator) Summarize(ctx context.Context, snap core.MarketSnapshot, consensus core.ConsensusScore, prob core.ProbabilityResult) (string, error) {
	if n.provider == nil {
		return "", core.ErrInsightDisabled
	}

	resp, err := n.provider.Chat(ctx, ChatRequest{
		SystemPrompt: narratorSystemPrompt,
		Messages: []Message{
			{Role: "user", Content: buildPrompt(snap, consensus, prob)},
		},
		MaxTokens:   512,
		Temperature: 0.3,
	})
	if err != nil {
		n.logger.Warn("insight provider failed",
			zap.String("provider", n.provider.Name()),
			zap.Error(err))
		return "", core.WrapError(core.ErrInsightFailed, err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", core.WrapError(core.ErrInsightFailed, fmt.Errorf("empty response"))
	}
	return content, nil
}

func buildPrompt(snap core.MarketSnapshot, consensus core.ConsensusScore, prob core.ProbabilityResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Contract: %s strike %.2f, spot %.2f, %d days to expiry, IV %.1f%%.\n",
		snap.Side, snap.Strike, snap.Spot, snap.DaysToExpiry, snap.IV*100)
	fmt.Fprintf(&b, "Consensus confidence %.1f/100 (probability %.1f, volatility %.1f, oi %.1f, market %.1f).\n",
		consensus.Confidence, consensus.Probability, consensus.Volatility,
		consensus.OpenInterest, consensus.Market)

	names := make([]string, 0, len(prob.Models))
	for name := range prob.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString("ITM probabilities:")
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%.3f", name, prob.Models[name])
	}
	b.WriteString(".\n")
	if len(prob.Failed) > 0 {
		fmt.Fprintf(&b, "Models failed: %s.\n", strings.Join(prob.Failed, ", "))
	}
	fmt.Fprintf(&b, "Expected move: %.2f.", prob.ExpectedMove)
	return b.String()
}
