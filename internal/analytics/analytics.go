// Package analytics derives the summary statistics record of a finished run
// from its daily ledger. It only reads the ledger, never mutates engine state.
package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/your-org/tradesim/internal/ledger"
)

const (
	tradingDaysPerYear  = 252
	calendarDaysPerYear = 365
)

// Summary is the derived statistics record sealed together with the run
// result. Ratio fields may be NaN when their denominator is zero.
type Summary struct {
	StartValue decimal.Decimal
	EndValue   decimal.Decimal
	NetPnL     decimal.Decimal

	TotalReturn      float64
	AnnualReturn     float64
	AnnualVolatility float64
	CAGR             float64
	MaxDrawdown      float64 // reported as a positive fraction
	SharpeRatio      float64
	SortinoRatio     float64
	MARRatio         float64
	YearsTraded      float64

	TotalTrades     int
	WinningTrades   int
	LosingTrades    int
	AvgWinningTrade float64
	AvgLosingTrade  float64
}

// Summarize computes the summary record from the time-ordered daily ledger,
// the engine's round-trip tally, and the recorded max drawdown (<= 0).
func Summarize(snaps []ledger.Snapshot, stats ledger.TradeStats, maxDrawdown float64) (Summary, error) {
	if len(snaps) == 0 {
		return Summary{}, fmt.Errorf("cannot summarize an empty ledger")
	}

	returns := make([]float64, len(snaps))
	for i, s := range snaps {
		returns[i] = s.Return
	}
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	startValue := snaps[0].PortfolioValue()
	endValue := snaps[len(snaps)-1].PortfolioValue()

	annualReturn := mean(returns) * tradingDaysPerYear
	annualVol := sampleStdDev(returns) * math.Sqrt(tradingDaysPerYear)
	downsideDev := sampleStdDev(downside) * math.Sqrt(tradingDaysPerYear)

	days := snaps[len(snaps)-1].Time.Sub(snaps[0].Time).Hours() / 24
	years := (days + 1) / calendarDaysPerYear
	cagr := math.Pow(endValue/startValue, 1/years) - 1

	s := Summary{
		StartValue: decimal.NewFromFloat(startValue),
		EndValue:   decimal.NewFromFloat(endValue),
		NetPnL:     decimal.NewFromFloat(endValue - startValue),

		TotalReturn:      endValue/startValue - 1,
		AnnualReturn:     annualReturn,
		AnnualVolatility: annualVol,
		CAGR:             cagr,
		MaxDrawdown:      -maxDrawdown,
		SharpeRatio:      ratio(annualReturn, annualVol),
		SortinoRatio:     ratio(annualReturn, downsideDev),
		MARRatio:         ratio(-cagr, maxDrawdown),
		YearsTraded:      years,

		TotalTrades:     stats.Total(),
		WinningTrades:   stats.WinningTrades,
		LosingTrades:    stats.LosingTrades,
		AvgWinningTrade: mean(stats.WinningReturns),
		AvgLosingTrade:  mean(stats.LosingReturns),
	}
	return s, nil
}

// Metric extracts the named optimization metric from a summary. Names follow
// the configuration file spelling.
func Metric(s Summary, name string) (float64, error) {
	switch strings.ToLower(name) {
	case "sharpe_ratio":
		return s.SharpeRatio, nil
	case "sortino_ratio":
		return s.SortinoRatio, nil
	case "mar_ratio":
		return s.MARRatio, nil
	case "cagr":
		return s.CAGR, nil
	case "annual_return":
		return s.AnnualReturn, nil
	case "total_return":
		return s.TotalReturn, nil
	case "max_drawdown":
		return s.MaxDrawdown, nil
	default:
		return 0, fmt.Errorf("unknown optimization metric %q", name)
	}
}

// ratio divides, mapping a zero denominator to NaN instead of +-Inf.
func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev is the n-1 standard deviation, 0 when fewer than two samples.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
