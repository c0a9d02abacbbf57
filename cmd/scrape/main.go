package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/hololive-wiki-scraper/internal/app"
	"github.com/kapu/hololive-wiki-scraper/internal/config"
	"github.com/kapu/hololive-wiki-scraper/internal/util"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Hololive wiki scraper starting...",
		zap.String("base_url", cfg.Wiki.BaseURL),
		zap.String("output_root", cfg.Output.Root),
		zap.String("tabber_strategy", cfg.Wiki.TabberStrategy),
		zap.String("log_level", cfg.Logging.Level),
	)

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		return 1
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := container.Runner.Run(ctx)
	if err != nil {
		logger.Warn("Scrape interrupted",
			zap.Int("processed", summary.Processed),
			zap.Error(err),
		)
		return 1
	}

	if len(summary.Failed) > 0 {
		for _, entry := range summary.Failed {
			logger.Warn("Talent not scraped",
				zap.String("group", entry.Group),
				zap.String("id", entry.ID),
			)
		}
		return 1
	}

	logger.Info("Shutdown complete")
	return 0
}
