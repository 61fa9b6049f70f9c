// Package decision defines the trade decisions a strategy hands to the engine.
package decision

import (
	"fmt"

	"github.com/your-org/tradesim/internal/market"
)

// Action describes what a decision asks the engine to do.
type Action int

const (
	// Open requests a new long position at the next session's open.
	Open Action = iota + 1
	// Close requests full liquidation of the held position.
	Close
	// Short is accepted but unimplemented; the engine ignores it.
	Short
)

func (a Action) String() string {
	switch a {
	case Open:
		return "open"
	case Close:
		return "close"
	case Short:
		return "short"
	}
	return "unknown"
}

// SizingMode tags which sizing field of an open decision is authoritative.
type SizingMode int

const (
	// SizeShares sizes the open by an absolute share count.
	SizeShares SizingMode = iota + 1
	// SizePercent sizes the open by a fraction of available cash.
	SizePercent
)

// Decision is one instruction for the next trading session. Use the
// constructors; a zero Decision fails Validate.
type Decision struct {
	Instrument string
	Action     Action
	Mode       SizingMode // set for Open only
	Shares     int
	Percent    float64
}

// OpenShares builds an open decision for an absolute number of shares.
func OpenShares(instrument string, shares int) Decision {
	return Decision{Instrument: instrument, Action: Open, Mode: SizeShares, Shares: shares}
}

// OpenPercent builds an open decision sized as a fraction of available cash.
func OpenPercent(instrument string, percent float64) Decision {
	return Decision{Instrument: instrument, Action: Open, Mode: SizePercent, Percent: percent}
}

// CloseAll builds a close decision for the instrument's full position.
func CloseAll(instrument string) Decision {
	return Decision{Instrument: instrument, Action: Close}
}

// OpenShort builds a short request. Shorting is a non-goal; the engine
// accepts and drops these.
func OpenShort(instrument string) Decision {
	return Decision{Instrument: instrument, Action: Short}
}

// Validate checks the structural preconditions the engine treats as fatal.
func (d Decision) Validate() error {
	if d.Instrument == "" {
		return fmt.Errorf("decision has no instrument")
	}
	switch d.Action {
	case Open:
		switch d.Mode {
		case SizeShares:
			if d.Shares < 0 {
				return fmt.Errorf("open decision for %s has negative share count", d.Instrument)
			}
		case SizePercent:
			if d.Percent < 0 || d.Percent > 1 {
				return fmt.Errorf("open decision for %s has percent outside [0,1]", d.Instrument)
			}
		default:
			return fmt.Errorf("open decision for %s specifies neither a share count nor a position percent", d.Instrument)
		}
	case Close, Short:
	default:
		return fmt.Errorf("decision for %s has unknown action", d.Instrument)
	}
	return nil
}

// Provider computes the decisions to execute at the following session's open.
// The history map holds, per tradable instrument, the trailing window of bars
// ending at the session the decisions are made on.
type Provider interface {
	Decisions(history map[string][]market.Bar) []Decision
}
