package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"customer-analytics/internal/config"
	"customer-analytics/internal/logging"
	"customer-analytics/internal/runner"

	"go.uber.org/zap"
)

const defaultConfigPath = "config.yaml"

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	configPath := flag.String("config", defaultConfigPath, "path to the yaml config file")
	dashboard := flag.String("dashboard", "", "dashboard HTML output path (overrides config)")
	pdf := flag.String("pdf", "", "PDF summary output path (overrides config)")
	jsonOut := flag.String("json", "", "JSON metrics output path (overrides config)")

	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		exitCode = 1
		return
	}
	if *dashboard != "" {
		cfg.Output.Dashboard = *dashboard
	}
	if *pdf != "" {
		cfg.Output.PDF = *pdf
	}
	if *jsonOut != "" {
		cfg.Output.JSON = *jsonOut
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Printf("Failed to build logger: %v", err)
		exitCode = 1
		return
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := runner.NewState(cfg, logger)
	state.Logger.Info("starting analysis", zap.String("source", cfg.Datasets.Source))

	if err := runner.Run(ctx, state); err != nil {
		state.Logger.Error("Analysis failed", zap.Error(err))
		exitCode = 1
		return
	}

	if err := runner.Report(state, os.Stdout); err != nil {
		state.Logger.Error("Report failed", zap.Error(err))
		exitCode = 1
		return
	}

	state.Logger.Info("analysis complete",
		zap.Duration("load", state.Timings.Load),
		zap.Duration("process", state.Timings.Process),
		zap.Duration("analyze", state.Timings.Analyze),
		zap.Duration("report", state.Timings.Report),
	)
}

// loadConfig falls back to defaults when the default config file is absent.
// An explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.LoadConfig("")
	}
	return nil, fmt.Errorf("%s: %w", path, err)
}
