package main

import (
	"context"
	"flag"
	"log"
	"os"

	"customer-analytics/internal/config"
	"customer-analytics/internal/logging"
	"customer-analytics/internal/runner"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	dbType := flag.String("db", config.SourceSQLite, "database to seed (postgres, mysql, sqlite, or mongo)")
	data := flag.String("data", "", "directory or URL holding the CSV files (overrides datasets.base_url)")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		exitCode = 1
		return
	}
	if *data != "" {
		cfg.Datasets.BaseURL = *data
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Printf("Failed to build logger: %v", err)
		exitCode = 1
		return
	}
	defer logger.Sync()

	if err := runner.Seed(context.Background(), cfg, logger, *dbType); err != nil {
		log.Printf("Seeding %s failed: %v", *dbType, err)
		exitCode = 1
		return
	}
}
