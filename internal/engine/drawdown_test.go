package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawdownNewPeakResetsTrough(t *testing.T) {
	d := NewDrawdownTracker(10000)

	d.Update(12000, 11000)
	assert.Equal(t, 12000.0, d.GlobalHigh())
	// The peak session's own low is ignored once a new peak is set.
	assert.Zero(t, d.MaxDrawdown())

	d.Update(11500, 10800)
	assert.InDelta(t, 10800.0/12000.0-1, d.MaxDrawdown(), 1e-9)
}

func TestDrawdownKeepsDeepestTrough(t *testing.T) {
	d := NewDrawdownTracker(10000)

	d.Update(12000, 11000)
	d.Update(11000, 10800)
	d.Update(11000, 10900) // shallower, must not overwrite
	assert.InDelta(t, -0.10, d.MaxDrawdown(), 1e-9)

	d.Update(11000, 9600)
	assert.InDelta(t, 9600.0/12000.0-1, d.MaxDrawdown(), 1e-9)
}

func TestDrawdownFlatSeries(t *testing.T) {
	d := NewDrawdownTracker(10000)
	d.Update(10000, 10000)
	d.Update(10000, 10000)
	assert.Zero(t, d.MaxDrawdown())
}
