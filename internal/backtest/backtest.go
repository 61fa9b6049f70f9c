// Package backtest drives one simulation run: it walks the session calendar,
// feeds trailing history to the decision provider, and hands the resulting
// decisions to the execution engine one session later.
package backtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/tradesim/internal/analytics"
	"github.com/your-org/tradesim/internal/decision"
	"github.com/your-org/tradesim/internal/engine"
	"github.com/your-org/tradesim/internal/ledger"
	"github.com/your-org/tradesim/internal/market"
	"github.com/your-org/tradesim/pkg/logger"
)

// RunResult is the sealed artifact of one completed run.
type RunResult struct {
	RunID     string
	Start     time.Time
	End       time.Time
	Snapshots []ledger.Snapshot
	Summary   analytics.Summary
}

// Backtester owns the calendar iteration and the lifetime of the run result.
// One instance runs sequentially; independent parameter sets get independent
// instances.
type Backtester struct {
	engine        *engine.Engine
	provider      decision.Provider
	historyWindow int
}

// New builds a driver around an engine and a decision provider.
func New(e *engine.Engine, p decision.Provider, historyWindow int) *Backtester {
	return &Backtester{engine: e, provider: p, historyWindow: historyWindow}
}

// Run processes every tradable session in order and returns the sealed run
// result. The provider sees, per instrument, the trailing historyWindow+1
// bars ending at the prior session; its decisions execute at the current
// session's open. A fatal engine error aborts the run with no partial result.
func (b *Backtester) Run(series map[string]*market.Series) (*RunResult, error) {
	sessions, err := market.Calendar(series, b.historyWindow)
	if err != nil {
		return nil, err
	}
	if !b.engine.CarryOver() {
		b.engine.ResetRun()
	}

	snapshots := make([]ledger.Snapshot, 0, len(sessions))
	var pending []decision.Decision

	for i, t := range sessions {
		bars := make(map[string]market.Bar, len(series))
		for instrument, s := range series {
			if bar, ok := s.Lookup(t); ok {
				bars[instrument] = bar
			}
		}

		final := i == len(sessions)-1
		snap, err := b.engine.ProcessSession(engine.Session{Time: t, Bars: bars}, pending, final)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", t.Format("2006-01-02"), err)
		}
		snapshots = append(snapshots, snap)

		if final {
			break
		}
		pending = b.provider.Decisions(b.windowsEndingAt(series, t))
	}

	summary, err := analytics.Summarize(snapshots, b.engine.Stats(), b.engine.MaxDrawdown())
	if err != nil {
		return nil, err
	}
	return &RunResult{
		RunID:     uuid.NewString(),
		Start:     sessions[0],
		End:       sessions[len(sessions)-1],
		Snapshots: snapshots,
		Summary:   summary,
	}, nil
}

// windowsEndingAt builds the per-instrument decision input. An instrument
// without a bar at t is excluded from that session's input, not the whole
// session.
func (b *Backtester) windowsEndingAt(series map[string]*market.Series, t time.Time) map[string][]market.Bar {
	windows := make(map[string][]market.Bar, len(series))
	for instrument, s := range series {
		window, ok := s.WindowEndingAt(t, b.historyWindow+1)
		if !ok {
			logger.Debugf("No %d-bar window for %s ending %s, excluding it from decision input",
				b.historyWindow+1, instrument, t.Format("2006-01-02"))
			continue
		}
		windows[instrument] = window
	}
	return windows
}
