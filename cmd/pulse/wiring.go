package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quantx/pulse/internal/chain"
	"github.com/quantx/pulse/internal/config"
	"github.com/quantx/pulse/internal/probability"
)

// loadConfig loads and validates the config file, falling back to defaults
// when no file is given.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// buildSuite wires the full model suite from the models config. With
// Deterministic set every simulation model shares the configured seed.
func buildSuite(cfg config.ModelsConfig, log *zap.Logger) *probability.Suite {
	mc := probability.MonteCarloParams{Paths: cfg.MonteCarloPaths}
	tree := probability.TreeParams{Steps: cfg.TreeSteps}

	mcSource := probability.TimeSeeded()
	if cfg.Deterministic {
		mcSource = probability.FixedSeed(cfg.Seed)
	}
	fixed := probability.FixedSeed(cfg.Seed)

	models := []probability.Model{
		probability.NewAnalytic(),
		probability.NewLognormal(),
		probability.NewBinomial(tree),
		probability.NewMonteCarlo(mc, mcSource),
		probability.NewGBM(),
		probability.NewTrinomial(tree),
		probability.NewHeston(probability.DefaultHestonParams(), fixed),
		probability.NewSABR(probability.DefaultSABRParams()),
		probability.NewJumpDiffusion(probability.DefaultJumpParams(), fixed),
		probability.NewGARCH(probability.DefaultGARCHParams(), fixed),
		probability.NewRiskNeutralDensity(nil),
		probability.NewHeuristic(),
	}
	return probability.NewSuite(models, log)
}

// buildResolver wires the chain providers named in the config.
func buildResolver(cfg config.ChainConfig, log *zap.Logger) *chain.Resolver {
	providers := make([]chain.Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		switch name {
		case "synthetic":
			providers = append(providers, chain.NewSynthetic(cfg.Spots))
		}
	}
	return chain.NewResolver(providers, log)
}
