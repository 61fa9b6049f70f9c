// Package strategy ships a simple moving-average crossover decision provider.
// It exists so the simulator is runnable end to end; any Provider
// implementation can replace it.
package strategy

import (
	"fmt"
	"sort"

	"github.com/your-org/tradesim/internal/decision"
	"github.com/your-org/tradesim/internal/market"
)

// Crossover opens when the short moving average of closes is above the long
// one and closes when it falls below. It is stateless; redundant opens and
// closes are screened out by the engine.
type Crossover struct {
	short   int
	long    int
	percent float64
}

// NewCrossover validates the window lengths and builds the provider.
func NewCrossover(short, long int, percent float64) (*Crossover, error) {
	if short < 1 {
		return nil, fmt.Errorf("short window must be at least 1, got %d", short)
	}
	if long <= short {
		return nil, fmt.Errorf("long window %d must exceed short window %d", long, short)
	}
	if percent <= 0 || percent > 1 {
		return nil, fmt.Errorf("position percent must be in (0,1], got %v", percent)
	}
	return &Crossover{short: short, long: long, percent: percent}, nil
}

// Decisions evaluates the crossover per instrument in sorted order so the
// output is deterministic.
func (c *Crossover) Decisions(history map[string][]market.Bar) []decision.Decision {
	instruments := make([]string, 0, len(history))
	for instrument := range history {
		instruments = append(instruments, instrument)
	}
	sort.Strings(instruments)

	var out []decision.Decision
	for _, instrument := range instruments {
		bars := history[instrument]
		if len(bars) < c.long {
			continue
		}
		shortAvg := meanClose(bars[len(bars)-c.short:])
		longAvg := meanClose(bars[len(bars)-c.long:])
		switch {
		case shortAvg > longAvg:
			out = append(out, decision.OpenPercent(instrument, c.percent))
		case shortAvg < longAvg:
			out = append(out, decision.CloseAll(instrument))
		}
	}
	return out
}

func meanClose(bars []market.Bar) float64 {
	sum := 0.0
	for _, b := range bars {
		sum += b.Close
	}
	return sum / float64(len(bars))
}
