package engine

// DrawdownTracker follows the conservative peak-to-trough decline of the
// portfolio using intrasession highs and lows. It is per-run state, created
// at run start and discarded with the run.
type DrawdownTracker struct {
	globalHigh  float64
	localLow    float64
	maxDrawdown float64 // most negative value seen, <= 0
}

// NewDrawdownTracker starts tracking from the initial portfolio value.
func NewDrawdownTracker(initial float64) *DrawdownTracker {
	return &DrawdownTracker{globalHigh: initial, localLow: initial}
}

// Update feeds one session's portfolio high and low. A new peak resets the
// trough; otherwise a new trough may widen the recorded drawdown.
func (d *DrawdownTracker) Update(high, low float64) {
	if high > d.globalHigh {
		d.globalHigh = high
		d.localLow = d.globalHigh
		return
	}
	if low < d.localLow {
		d.localLow = low
		if dd := low/d.globalHigh - 1; dd < d.maxDrawdown {
			d.maxDrawdown = dd
		}
	}
}

// MaxDrawdown returns the deepest drawdown seen, as a value <= 0.
func (d *DrawdownTracker) MaxDrawdown() float64 { return d.maxDrawdown }

// GlobalHigh returns the highest portfolio value seen.
func (d *DrawdownTracker) GlobalHigh() float64 { return d.globalHigh }
