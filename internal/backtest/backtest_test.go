package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/tradesim/internal/decision"
	"github.com/your-org/tradesim/internal/engine"
	"github.com/your-org/tradesim/internal/ledger"
	"github.com/your-org/tradesim/internal/market"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func flatSeries(instrument string, days int, price float64) *market.Series {
	bars := make([]market.Bar, days)
	for i := range bars {
		bars[i] = market.Bar{Time: day(i + 1), Open: price, High: price, Low: price, Close: price}
	}
	return market.NewSeries(instrument, bars)
}

// scriptedProvider returns one scripted decision batch per call and records
// the windows it was shown.
type scriptedProvider struct {
	script  [][]decision.Decision
	calls   int
	windows []map[string][]market.Bar
}

func (p *scriptedProvider) Decisions(history map[string][]market.Bar) []decision.Decision {
	p.windows = append(p.windows, history)
	p.calls++
	if p.calls > len(p.script) {
		return nil
	}
	return p.script[p.calls-1]
}

func newEngine(t *testing.T, carry bool) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Config{
		InitialCash:        10000,
		Commission:         5,
		CarryOverPositions: carry,
	})
	require.NoError(t, err)
	return e
}

func TestRunExecutesDecisionsOneSessionLater(t *testing.T) {
	series := map[string]*market.Series{"SPY": flatSeries("SPY", 5, 100)}
	provider := &scriptedProvider{script: [][]decision.Decision{
		{decision.OpenPercent("SPY", 1.0)},
	}}
	bt := New(newEngine(t, false), provider, 2)

	result, err := bt.Run(series)
	require.NoError(t, err)

	// Days 1-2 are history, so days 3-5 trade.
	require.Len(t, result.Snapshots, 3)
	assert.Equal(t, day(3), result.Start)
	assert.Equal(t, day(5), result.End)
	assert.NotEmpty(t, result.RunID)

	// The decision produced after day 3 executes at day 4's open.
	assert.Empty(t, result.Snapshots[0].Transactions)
	tx, ok := result.Snapshots[1].Transactions["SPY"]
	require.True(t, ok)
	assert.Equal(t, ledger.TxOpen, tx.Type)
	assert.Equal(t, 99, tx.Shares)
}

func TestRunProviderWindows(t *testing.T) {
	series := map[string]*market.Series{"SPY": flatSeries("SPY", 5, 100)}
	provider := &scriptedProvider{}
	bt := New(newEngine(t, false), provider, 2)

	_, err := bt.Run(series)
	require.NoError(t, err)

	// Called after every session except the final one.
	require.Equal(t, 2, provider.calls)
	window := provider.windows[0]["SPY"]
	require.Len(t, window, 3)
	assert.Equal(t, day(3), window[len(window)-1].Time)
}

func TestRunLiquidatesAtEnd(t *testing.T) {
	series := map[string]*market.Series{"SPY": flatSeries("SPY", 5, 100)}
	provider := &scriptedProvider{script: [][]decision.Decision{
		{decision.OpenPercent("SPY", 1.0)},
	}}
	e := newEngine(t, false)
	bt := New(e, provider, 2)

	result, err := bt.Run(series)
	require.NoError(t, err)

	last := result.Snapshots[len(result.Snapshots)-1]
	tx, ok := last.Transactions["SPY"]
	require.True(t, ok)
	assert.Equal(t, ledger.TxClose, tx.Type)
	assert.Zero(t, last.Invested)
	assert.Zero(t, e.OpenPositions())
}

func TestRunCarriesPositionsOver(t *testing.T) {
	series := map[string]*market.Series{"SPY": flatSeries("SPY", 5, 100)}
	provider := &scriptedProvider{script: [][]decision.Decision{
		{decision.OpenPercent("SPY", 1.0)},
	}}
	e := newEngine(t, true)
	bt := New(e, provider, 2)

	result, err := bt.Run(series)
	require.NoError(t, err)

	last := result.Snapshots[len(result.Snapshots)-1]
	assert.NotZero(t, last.Invested)
	assert.Equal(t, 1, e.OpenPositions())
}

func TestRunAbortsOnInvalidDecision(t *testing.T) {
	series := map[string]*market.Series{"SPY": flatSeries("SPY", 5, 100)}
	provider := &scriptedProvider{script: [][]decision.Decision{
		{{Instrument: "SPY", Action: decision.Open}}, // neither shares nor percent
	}}
	bt := New(newEngine(t, false), provider, 2)

	_, err := bt.Run(series)
	assert.Error(t, err)
}

func TestRunValueContinuity(t *testing.T) {
	bars := []market.Bar{
		{Time: day(1), Open: 100, High: 101, Low: 99, Close: 100},
		{Time: day(2), Open: 100, High: 103, Low: 99, Close: 102},
		{Time: day(3), Open: 102, High: 106, Low: 101, Close: 105},
		{Time: day(4), Open: 105, High: 105, Low: 98, Close: 99},
		{Time: day(5), Open: 99, High: 102, Low: 98, Close: 101},
	}
	series := map[string]*market.Series{"SPY": market.NewSeries("SPY", bars)}
	provider := &scriptedProvider{script: [][]decision.Decision{
		{decision.OpenPercent("SPY", 0.5)},
		nil,
		{decision.CloseAll("SPY")},
	}}
	bt := New(newEngine(t, false), provider, 1)

	result, err := bt.Run(series)
	require.NoError(t, err)

	prev := 10000.0
	for _, s := range result.Snapshots {
		value := s.PortfolioValue()
		assert.InDelta(t, s.PnL, value-prev, 1e-9, s.Time)
		assert.InDelta(t, s.Return, value/prev-1, 1e-9, s.Time)
		prev = value
	}
	assert.InDelta(t, prev, result.Summary.EndValue.InexactFloat64(), 1e-6)
}
