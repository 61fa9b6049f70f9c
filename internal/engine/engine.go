// Package engine implements the execution and accounting engine: it turns
// trade decisions and stop-loss triggers into a consistent cash/position
// ledger, one sealed snapshot per session.
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/your-org/tradesim/internal/decision"
	"github.com/your-org/tradesim/internal/ledger"
	"github.com/your-org/tradesim/internal/market"
	"github.com/your-org/tradesim/internal/pricing"
	"github.com/your-org/tradesim/pkg/logger"
)

// Config carries the construction-time parameters of one engine instance.
type Config struct {
	InitialCash        float64
	Commission         float64
	Spreads            map[string]float64
	StopLossFraction   float64 // 0 disables stop-loss handling entirely
	CarryOverPositions bool
}

// Engine executes decisions session by session. One instance serves one run
// at a time; independent runs get independent instances.
type Engine struct {
	pricing  pricing.Model
	stopLoss float64
	carry    bool

	initialCash float64
	book        *ledger.Book
	dd          *DrawdownTracker
	stats       ledger.TradeStats
	lastClose   map[string]float64

	prevCash     float64
	prevInvested float64
	prevValue    float64
}

// Session is the market data available for one trading date.
type Session struct {
	Time time.Time
	Bars map[string]market.Bar
}

// New validates the configuration and builds an engine with a fresh run
// context.
func New(cfg Config) (*Engine, error) {
	if cfg.InitialCash <= 0 {
		return nil, fmt.Errorf("initial cash must be greater than zero")
	}
	if cfg.StopLossFraction < 0 || cfg.StopLossFraction >= 1 {
		return nil, fmt.Errorf("stop loss fraction must be in [0,1)")
	}
	e := &Engine{
		pricing:     pricing.New(cfg.Commission, cfg.Spreads),
		stopLoss:    cfg.StopLossFraction,
		carry:       cfg.CarryOverPositions,
		initialCash: cfg.InitialCash,
		book:        ledger.NewBook(),
		lastClose:   make(map[string]float64),
	}
	e.ResetRun()
	return e, nil
}

// ResetRun discards all per-run state: open positions, high-water marks,
// trade tally, and previous-day totals. Chained runs that carry positions
// over skip this.
func (e *Engine) ResetRun() {
	e.book.Reset()
	e.dd = NewDrawdownTracker(e.initialCash)
	e.stats = ledger.TradeStats{}
	e.prevCash = e.initialCash
	e.prevInvested = 0
	e.prevValue = e.initialCash
}

// CarryOver reports whether positions survive the end of a run.
func (e *Engine) CarryOver() bool { return e.carry }

// Stats returns the round-trip tally accumulated so far.
func (e *Engine) Stats() ledger.TradeStats { return e.stats }

// MaxDrawdown returns the deepest drawdown recorded so far, <= 0.
func (e *Engine) MaxDrawdown() float64 { return e.dd.MaxDrawdown() }

// OpenPositions returns the number of currently open positions.
func (e *Engine) OpenPositions() int { return e.book.Len() }

// ProcessSession applies one session in the fixed order: close decisions,
// stop-loss triggers, open decisions, then mark-to-market. When final is set
// and positions are not carried over, whatever remains open is liquidated at
// the session's close-side price before the snapshot is sealed.
//
// Decisions were computed from data up to the prior session and execute at
// this session's open.
func (e *Engine) ProcessSession(s Session, decisions []decision.Decision, final bool) (ledger.Snapshot, error) {
	for _, d := range decisions {
		if err := d.Validate(); err != nil {
			return ledger.Snapshot{}, fmt.Errorf("invalid trade decision: %w", err)
		}
	}

	cash := e.prevCash
	commission := 0.0
	txs := make(map[string]ledger.Transaction)

	var closes, opens []decision.Decision
	for _, d := range decisions {
		switch d.Action {
		case decision.Close:
			closes = append(closes, d)
		case decision.Open:
			opens = append(opens, d)
		case decision.Short:
			logger.Debugf("Dropping short decision for %s: short selling is not supported", d.Instrument)
		}
	}

	// Closes run first so the freed cash is available for opens.
	for _, d := range closes {
		pos, held := e.book.Position(d.Instrument)
		if !held {
			// Closing a flat instrument is a no-op by design.
			continue
		}
		bar, ok := s.Bars[d.Instrument]
		if !ok {
			logger.Warnf("Session %s has no bar for %s, dropping close decision",
				s.Time.Format("2006-01-02"), d.Instrument)
			continue
		}
		if d.Shares > 0 && d.Shares != pos.Shares {
			logger.Warnf("Close decision for %s requests %d shares but %d are held, liquidating fully",
				d.Instrument, d.Shares, pos.Shares)
		}
		price := e.pricing.ClosePrice(d.Instrument, bar.Open)
		cash += float64(pos.Shares)*price - e.pricing.Commission
		commission += e.pricing.Commission
		e.stats.RecordClose(pos.EntryPrice, price)
		txs[d.Instrument] = ledger.Transaction{
			Instrument: d.Instrument, Type: ledger.TxClose, Shares: pos.Shares, Price: price,
		}
		e.book.Close(d.Instrument)
	}

	// Stop-loss pass: collect triggers first, then apply, so the book is
	// never mutated while being iterated. A held stop executes at the stop
	// price, not the session low.
	if e.stopLoss != 0 {
		var triggered []string
		for _, instrument := range e.book.Instruments() {
			pos, _ := e.book.Position(instrument)
			if pos.StopPrice == 0 {
				continue
			}
			bar, ok := s.Bars[instrument]
			if !ok {
				continue
			}
			if bar.Low <= pos.StopPrice {
				triggered = append(triggered, instrument)
			}
		}
		for _, instrument := range triggered {
			pos, _ := e.book.Close(instrument)
			cash += float64(pos.Shares)*pos.StopPrice - e.pricing.Commission
			commission += e.pricing.Commission
			e.stats.RecordClose(pos.EntryPrice, pos.StopPrice)
			txs[instrument] = ledger.Transaction{
				Instrument: instrument, Type: ledger.TxClose, Shares: pos.Shares, Price: pos.StopPrice,
			}
			logger.Infof("Stop loss for %s triggered at %.4f on %s",
				instrument, pos.StopPrice, s.Time.Format("2006-01-02"))
		}
	}

	// Opens run last against whatever cash the session has left.
	for _, d := range opens {
		if _, held := e.book.Position(d.Instrument); held {
			logger.Debugf("Dropping open decision for %s: position already held", d.Instrument)
			continue
		}
		if _, dup := txs[d.Instrument]; dup {
			logger.Warnf("Dropping open decision for %s: instrument already traded this session", d.Instrument)
			continue
		}
		bar, ok := s.Bars[d.Instrument]
		if !ok {
			logger.Warnf("Session %s has no bar for %s, dropping open decision",
				s.Time.Format("2006-01-02"), d.Instrument)
			continue
		}

		price := e.pricing.OpenPrice(d.Instrument, bar.Open)
		shares := d.Shares
		if d.Mode == decision.SizePercent {
			// Commission is reserved up front so the accepted count never
			// overdraws cash.
			shares = int(math.Floor((cash - e.pricing.Commission) / price * d.Percent))
		}
		if shares <= 0 {
			logger.Debugf("Open decision for %s sized to zero shares, skipping", d.Instrument)
			continue
		}
		cost := float64(shares)*price + e.pricing.Commission
		if cost > cash {
			logger.Warnf("Cash %.2f is not enough to open %d %s at %.4f on %s",
				cash, shares, d.Instrument, price, s.Time.Format("2006-01-02"))
			continue
		}

		cash -= cost
		commission += e.pricing.Commission
		stop := 0.0
		if e.stopLoss != 0 {
			stop = price * (1 - e.stopLoss)
		}
		e.book.Open(ledger.Position{
			Instrument: d.Instrument, Shares: shares, EntryPrice: price, StopPrice: stop,
		})
		txs[d.Instrument] = ledger.Transaction{
			Instrument: d.Instrument, Type: ledger.TxOpen, Shares: shares, Price: price,
		}
	}

	for instrument, bar := range s.Bars {
		e.lastClose[instrument] = bar.Close
	}
	markPrice := func(instrument string) float64 {
		if bar, ok := s.Bars[instrument]; ok {
			return bar.Close
		}
		return e.lastClose[instrument]
	}
	invested := e.book.MarkToMarket(markPrice)

	// Drawdown brackets the session with intrasession highs and lows over the
	// open positions; cash itself has no intrasession range.
	high, low := cash, cash
	for _, instrument := range e.book.Instruments() {
		pos, _ := e.book.Position(instrument)
		if bar, ok := s.Bars[instrument]; ok {
			high += float64(pos.Shares) * bar.High
			low += float64(pos.Shares) * bar.Low
		} else {
			px := e.lastClose[instrument]
			high += float64(pos.Shares) * px
			low += float64(pos.Shares) * px
		}
	}
	e.dd.Update(high, low)

	if final && !e.carry && e.book.Len() > 0 {
		for _, instrument := range e.book.Instruments() {
			pos, _ := e.book.Close(instrument)
			price := e.pricing.ClosePrice(instrument, markPrice(instrument))
			cash += float64(pos.Shares)*price - e.pricing.Commission
			commission += e.pricing.Commission
			e.stats.RecordClose(pos.EntryPrice, price)
			txs[instrument] = ledger.Transaction{
				Instrument: instrument, Type: ledger.TxClose, Shares: pos.Shares, Price: price,
			}
		}
		invested = 0
	}

	value := cash + invested
	snap := ledger.Snapshot{
		Time:         s.Time,
		Cash:         cash,
		Invested:     invested,
		PnL:          value - e.prevValue,
		Return:       value/e.prevValue - 1,
		Commission:   commission,
		Transactions: txs,
	}

	e.prevCash = cash
	e.prevInvested = invested
	e.prevValue = value
	return snap, nil
}
