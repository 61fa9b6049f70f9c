// Package main sweeps strategy parameters over independent backtest runs and
// reports the best-scoring set.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/your-org/tradesim/internal/analytics"
	"github.com/your-org/tradesim/internal/backtest"
	"github.com/your-org/tradesim/internal/config"
	"github.com/your-org/tradesim/internal/engine"
	"github.com/your-org/tradesim/internal/market"
	"github.com/your-org/tradesim/internal/optimizer"
	"github.com/your-org/tradesim/internal/strategy"
	"github.com/your-org/tradesim/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	dataDir := flag.String("data", "data", "Directory holding per-instrument OHLC CSV files")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.SetGlobalLogLevel(cfg.LogLevel)
	logger.Info("Parameter sweep starting...")
	logger.Infof("Metric: %s, parameter space: %v", cfg.Optimize.Metric, cfg.Optimize.Parameters)

	series, err := market.LoadDir(*dataDir, cfg.Instruments)
	if err != nil {
		logger.Fatalf("Failed to load market data: %v", err)
	}

	o := &optimizer.Optimizer{
		Metric:    cfg.Optimize.Metric,
		Ascending: cfg.Optimize.Ascending,
		Workers:   cfg.Optimize.Workers,
		Run: func(params map[string]float64) (analytics.Summary, error) {
			return runOnce(cfg, params, series)
		},
	}

	results, best, err := o.Optimize(cfg.Optimize.Parameters)
	if err != nil {
		logger.Fatalf("Sweep failed: %v", err)
	}

	logger.Infof("Completed %d runs", len(results))
	fmt.Println("==================================================")
	fmt.Printf(" Sweep Result (%s)\n", cfg.Optimize.Metric)
	fmt.Println("==================================================")
	for i, r := range results {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Printf("%s %-10.4f %v\n", marker, r.Score, r.Params)
	}
	fmt.Printf("\nBest parameters: %v (%s = %.4f, end value %s)\n",
		best.Params, cfg.Optimize.Metric, best.Score, best.Summary.EndValue.StringFixed(2))
}

// runOnce executes one full backtest with the parameter overrides applied on
// top of the base configuration. Every call builds a fresh engine so
// concurrent runs share nothing.
func runOnce(cfg *config.Config, params map[string]float64, series map[string]*market.Series) (analytics.Summary, error) {
	short := cfg.Strategy.ShortWindow
	long := cfg.Strategy.LongWindow
	percent := cfg.Strategy.PositionPercent
	stopLoss := cfg.StopLossFraction

	if v, ok := params["short_window"]; ok {
		short = int(v)
	}
	if v, ok := params["long_window"]; ok {
		long = int(v)
	}
	if v, ok := params["position_percent"]; ok {
		percent = v
	}
	if v, ok := params["stop_loss_fraction"]; ok {
		stopLoss = v
	}

	provider, err := strategy.NewCrossover(short, long, percent)
	if err != nil {
		return analytics.Summary{}, err
	}
	eng, err := engine.New(engine.Config{
		InitialCash:      cfg.InitialCash,
		Commission:       cfg.Commission,
		Spreads:          cfg.Spreads,
		StopLossFraction: stopLoss,
	})
	if err != nil {
		return analytics.Summary{}, err
	}

	result, err := backtest.New(eng, provider, cfg.HistoryWindow).Run(series)
	if err != nil {
		return analytics.Summary{}, err
	}
	return result.Summary, nil
}
