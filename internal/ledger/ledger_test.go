package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookOpenCloseRoundTrip(t *testing.T) {
	b := NewBook()
	b.Open(Position{Instrument: "SPY", Shares: 100, EntryPrice: 100, StopPrice: 90})

	p, ok := b.Position("SPY")
	require.True(t, ok)
	assert.Equal(t, 100, p.Shares)
	assert.Equal(t, 90.0, p.StopPrice)
	assert.Equal(t, 1, b.Len())

	closed, ok := b.Close("SPY")
	require.True(t, ok)
	assert.Equal(t, 100.0, closed.EntryPrice)
	assert.Equal(t, 0, b.Len())

	_, ok = b.Close("SPY")
	assert.False(t, ok)
}

func TestInstrumentsSorted(t *testing.T) {
	b := NewBook()
	b.Open(Position{Instrument: "SPY", Shares: 1, EntryPrice: 1})
	b.Open(Position{Instrument: "GLD", Shares: 1, EntryPrice: 1})
	b.Open(Position{Instrument: "AAPL", Shares: 1, EntryPrice: 1})

	assert.Equal(t, []string{"AAPL", "GLD", "SPY"}, b.Instruments())
}

func TestMarkToMarket(t *testing.T) {
	b := NewBook()
	b.Open(Position{Instrument: "SPY", Shares: 100, EntryPrice: 100})
	b.Open(Position{Instrument: "GLD", Shares: 50, EntryPrice: 20})

	prices := map[string]float64{"SPY": 101, "GLD": 19}
	invested := b.MarkToMarket(func(instrument string) float64 { return prices[instrument] })
	assert.InDelta(t, 100*101+50*19, invested, 1e-9)

	b.Reset()
	assert.Zero(t, b.MarkToMarket(func(string) float64 { return 100 }))
}

func TestSnapshotPortfolioValue(t *testing.T) {
	s := Snapshot{Cash: 400, Invested: 600}
	assert.Equal(t, 1000.0, s.PortfolioValue())
}

func TestTradeStatsClassification(t *testing.T) {
	var stats TradeStats

	stats.RecordClose(100, 110) // win
	stats.RecordClose(100, 90)  // loss
	stats.RecordClose(100, 100) // tie counts as a loss

	assert.Equal(t, 1, stats.WinningTrades)
	assert.Equal(t, 2, stats.LosingTrades)
	assert.Equal(t, 3, stats.Total())
	require.Len(t, stats.WinningReturns, 1)
	assert.InDelta(t, 0.10, stats.WinningReturns[0], 1e-9)
	require.Len(t, stats.LosingReturns, 2)
	assert.InDelta(t, -0.10, stats.LosingReturns[0], 1e-9)
	assert.InDelta(t, 0.0, stats.LosingReturns[1], 1e-9)
}
