package factory

import (
	"fmt"

	"github.com/quantx/pulse/internal/config"
	"github.com/quantx/pulse/internal/insight"
	"github.com/quantx/pulse/internal/insight/claude"
	"github.com/quantx/pulse/internal/insight/openai"
)

// New builds the chat provider selected by the insight configuration.
func New(cfg config.InsightConfig) (insight.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	default:
		return nil, fmt.Errorf("unknown insight provider: %s", cfg.Provider)
	}
}
