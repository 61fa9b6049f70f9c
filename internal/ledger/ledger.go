// Package ledger tracks open positions and the per-session accounting records
// a simulation run produces.
package ledger

import (
	"sort"
	"time"
)

// Position is one open long holding. Exactly one Position exists per
// instrument at a time; there is no averaging-in.
type Position struct {
	Instrument string
	Shares     int
	EntryPrice float64
	StopPrice  float64 // 0 means no resting stop order
}

// Book holds the currently open positions of one run. It is owned exclusively
// by the execution engine and is not safe for concurrent use.
type Book struct {
	positions map[string]Position
}

// NewBook creates an empty position book.
func NewBook() *Book {
	return &Book{positions: make(map[string]Position)}
}

// Open records a new position. Shares must be positive; callers screen out
// zero-share opens before reaching the book.
func (b *Book) Open(p Position) {
	b.positions[p.Instrument] = p
}

// Close removes and returns the position for the instrument.
func (b *Book) Close(instrument string) (Position, bool) {
	p, ok := b.positions[instrument]
	if ok {
		delete(b.positions, instrument)
	}
	return p, ok
}

// Position returns a copy of the instrument's open position.
func (b *Book) Position(instrument string) (Position, bool) {
	p, ok := b.positions[instrument]
	return p, ok
}

// Len returns the number of open positions.
func (b *Book) Len() int { return len(b.positions) }

// Instruments returns the instruments with open positions in sorted order,
// so iteration over the book is deterministic.
func (b *Book) Instruments() []string {
	out := make([]string, 0, len(b.positions))
	for instrument := range b.positions {
		out = append(out, instrument)
	}
	sort.Strings(out)
	return out
}

// MarkToMarket values all open positions with the supplied price lookup.
func (b *Book) MarkToMarket(price func(instrument string) float64) float64 {
	invested := 0.0
	for _, p := range b.positions {
		invested += float64(p.Shares) * price(p.Instrument)
	}
	return invested
}

// Reset discards all open positions.
func (b *Book) Reset() {
	b.positions = make(map[string]Position)
}

// TxType distinguishes opening from closing transactions.
type TxType string

const (
	TxOpen  TxType = "open"
	TxClose TxType = "close"
)

// Transaction is the record of one executed trade.
type Transaction struct {
	Instrument string
	Type       TxType
	Shares     int
	Price      float64
}

// Snapshot is the sealed accounting state of one session. The run result is
// an append-only, time-ordered sequence of these.
type Snapshot struct {
	Time         time.Time
	Cash         float64
	Invested     float64
	PnL          float64
	Return       float64
	Commission   float64
	Transactions map[string]Transaction
}

// PortfolioValue is the session's total portfolio value.
func (s Snapshot) PortfolioValue() float64 { return s.Cash + s.Invested }

// TradeStats accumulates the round-trip tally the engine maintains at close
// time. Analytics consumes it once the run is sealed.
type TradeStats struct {
	WinningTrades  int
	LosingTrades   int
	WinningReturns []float64
	LosingReturns  []float64
}

// RecordClose classifies one completed round trip. A close strictly above the
// entry price wins; ties count as losses.
func (t *TradeStats) RecordClose(entryPrice, exitPrice float64) {
	tradeReturn := exitPrice/entryPrice - 1
	if exitPrice > entryPrice {
		t.WinningTrades++
		t.WinningReturns = append(t.WinningReturns, tradeReturn)
	} else {
		t.LosingTrades++
		t.LosingReturns = append(t.LosingReturns, tradeReturn)
	}
}

// Total returns the number of completed round trips.
func (t TradeStats) Total() int { return t.WinningTrades + t.LosingTrades }
