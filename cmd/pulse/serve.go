package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantx/pulse/internal/api"
	"github.com/quantx/pulse/internal/api/handler"
	"github.com/quantx/pulse/internal/backtest"
	"github.com/quantx/pulse/internal/insight"
	"github.com/quantx/pulse/internal/insight/factory"
	"github.com/quantx/pulse/internal/logger"
	"github.com/quantx/pulse/internal/metrics"
	"github.com/quantx/pulse/internal/storage/archive"
	"github.com/quantx/pulse/internal/storage/memory"
	"github.com/quantx/pulse/internal/strategy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Pulse server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	log.Info("starting Pulse server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	suite := buildSuite(cfg.Models, log)
	analytics := handler.NewAnalyticsHandler(suite, reg)

	strategies := strategy.NewEngine(log)
	defs := memory.NewStrategyStore()

	var results *archive.Results
	if cfg.Archive.Type != "" {
		store, err := archive.FromConfig(cfg.Archive)
		if err != nil {
			return fmt.Errorf("creating archive: %w", err)
		}
		results = archive.NewResults(store)
	}

	backtests := handler.NewBacktestHandler(
		backtest.NewEngine(backtest.Costs{
			FeeFraction: cfg.Costs.FeeFraction,
			SlippageBPS: cfg.Costs.SlippageBPS,
		}, log),
		strategies,
		memory.NewBacktestStore(cfg.Backtest.MaxStored),
		defs,
		results,
		reg,
		cfg.Backtest.InitialCapital,
		log,
	)

	var narrator *insight.Narrator
	if cfg.Insight.Enabled {
		provider, err := factory.New(cfg.Insight)
		if err != nil {
			return fmt.Errorf("creating insight provider: %w", err)
		}
		narrator = insight.NewNarrator(provider, log)
		log.Info("insight narration enabled", zap.String("provider", provider.Name()))
	} else {
		narrator = insight.NewNarrator(nil)
	}

	resolver := buildResolver(cfg.Chain, log)

	server := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: cfg.Metrics.Path,
	}, api.Handlers{
		Analytics: analytics,
		Strategy:  handler.NewStrategyHandler(strategies, defs),
		Backtest:  backtests,
		Dashboard: handler.NewDashboardHandler(resolver),
		Insight:   handler.NewInsightHandler(analytics, narrator),
	}, reg, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down Pulse server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
