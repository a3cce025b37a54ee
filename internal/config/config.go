package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/quantx/pulse/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Models   ModelsConfig   `mapstructure:"models"`
	Costs    CostsConfig    `mapstructure:"costs"`
	Backtest BacktestConfig `mapstructure:"backtest"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Insight  InsightConfig  `mapstructure:"insight"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

// ModelsConfig tunes the probability model suite.
type ModelsConfig struct {
	MonteCarloPaths int   `mapstructure:"monte_carlo_paths"`
	TreeSteps       int   `mapstructure:"tree_steps"`
	Seed            int64 `mapstructure:"seed"`
	Deterministic   bool  `mapstructure:"deterministic"`
}

// CostsConfig holds backtest execution costs.
type CostsConfig struct {
	FeeFraction float64 `mapstructure:"fee_fraction"`
	SlippageBPS float64 `mapstructure:"slippage_bps"`
}

type BacktestConfig struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
	MaxStored      int     `mapstructure:"max_stored"`
}

// ChainConfig selects option-chain providers in priority order and
// seeds the synthetic provider's spot map.
type ChainConfig struct {
	Providers []string           `mapstructure:"providers"`
	Spots     map[string]float64 `mapstructure:"spots"`
}

type InsightConfig struct {
	Enabled  bool         `mapstructure:"enabled"`
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ArchiveConfig selects where backtest results are archived.
type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.SetEnvPrefix("PULSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Models: ModelsConfig{
			MonteCarloPaths: 10000,
			TreeSteps:       50,
			Seed:            42,
		},
		Costs: CostsConfig{
			FeeFraction: 0.0005,
			SlippageBPS: 1,
		},
		Backtest: BacktestConfig{
			InitialCapital: 100000,
			MaxStored:      100,
		},
		Chain: ChainConfig{
			Providers: []string{"synthetic"},
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "data/archive",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Models.MonteCarloPaths < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("monte_carlo_paths cannot be negative, got %d", c.Models.MonteCarloPaths))
	}
	if c.Models.TreeSteps < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("tree_steps cannot be negative, got %d", c.Models.TreeSteps))
	}

	if c.Costs.FeeFraction < 0 || c.Costs.FeeFraction > 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("fee_fraction must be between 0 and 1, got %f", c.Costs.FeeFraction))
	}
	if c.Costs.SlippageBPS < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("slippage_bps cannot be negative, got %f", c.Costs.SlippageBPS))
	}

	if c.Backtest.InitialCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_capital must be positive, got %f", c.Backtest.InitialCapital))
	}
	if c.Backtest.MaxStored < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_stored must be at least 1, got %d", c.Backtest.MaxStored))
	}

	for _, p := range c.Chain.Providers {
		if p != "synthetic" {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown chain provider %q", p))
		}
	}

	// Insight validation - if enabled, check provider config exists
	if c.Insight.Enabled {
		switch c.Insight.Provider {
		case "claude":
			if c.Insight.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.Insight.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown insight provider: %s", c.Insight.Provider))
		}
	}

	switch c.Archive.Type {
	case "", "localfs", "s3":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type: %s", c.Archive.Type))
	}

	return nil
}
