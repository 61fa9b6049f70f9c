// Package main runs one backtest over CSV market data and prints the report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/your-org/tradesim/internal/analytics"
	"github.com/your-org/tradesim/internal/backtest"
	"github.com/your-org/tradesim/internal/config"
	"github.com/your-org/tradesim/internal/csvwriter"
	"github.com/your-org/tradesim/internal/engine"
	"github.com/your-org/tradesim/internal/market"
	"github.com/your-org/tradesim/internal/resultstore"
	"github.com/your-org/tradesim/internal/strategy"
	"github.com/your-org/tradesim/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	dataDir := flag.String("data", "data", "Directory holding per-instrument OHLC CSV files")
	ledgerOut := flag.String("ledger-csv", "", "Optional path to export the daily ledger as CSV")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.SetGlobalLogLevel(cfg.LogLevel)
	logger.Info("Backtest starting...")
	logger.Infof("Loaded configuration from: %s", *configPath)
	logger.Infof("Instruments: %v", cfg.Instruments)

	series, err := market.LoadDir(*dataDir, cfg.Instruments)
	if err != nil {
		logger.Fatalf("Failed to load market data: %v", err)
	}

	provider, err := strategy.NewCrossover(
		cfg.Strategy.ShortWindow, cfg.Strategy.LongWindow, cfg.Strategy.PositionPercent)
	if err != nil {
		logger.Fatalf("Failed to build strategy: %v", err)
	}

	eng, err := engine.New(engine.Config{
		InitialCash:        cfg.InitialCash,
		Commission:         cfg.Commission,
		Spreads:            cfg.Spreads,
		StopLossFraction:   cfg.StopLossFraction,
		CarryOverPositions: cfg.CarryOverPositions,
	})
	if err != nil {
		logger.Fatalf("Failed to build engine: %v", err)
	}

	result, err := backtest.New(eng, provider, cfg.HistoryWindow).Run(series)
	if err != nil {
		logger.Fatalf("Backtest run failed: %v", err)
	}

	analytics.WriteSummary(os.Stdout, result.RunID, result.Start, result.End, result.Summary)

	if *ledgerOut != "" {
		if err := csvwriter.WriteLedger(*ledgerOut, result.Snapshots, logger.Zap(cfg.LogLevel)); err != nil {
			logger.Fatalf("Failed to export daily ledger: %v", err)
		}
	}

	if cfg.Database.Enabled() {
		ctx := context.Background()
		if err := resultstore.Migrate(cfg.Database.DSN(), "migrations"); err != nil {
			logger.Fatalf("Failed to apply migrations: %v", err)
		}
		pool, err := resultstore.Connect(ctx, cfg.Database.DSN())
		if err != nil {
			logger.Fatalf("Failed to connect to results database: %v", err)
		}
		defer pool.Close()
		if err := resultstore.New(pool, logger.Zap(cfg.LogLevel)).SaveRun(ctx, result); err != nil {
			logger.Fatalf("Failed to persist run: %v", err)
		}
		logger.Infof("Run %s persisted", result.RunID)
	}
}
