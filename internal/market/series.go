// Package market models per-instrument daily price series.
package market

import (
	"fmt"
	"sort"
	"time"
)

// Bar is one session's Open/High/Low/Close observation.
type Bar struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Series is the chronological bar series for one instrument.
type Series struct {
	Instrument string

	bars  []Bar
	index map[int64]int
}

// NewSeries builds a Series from bars, sorting them chronologically.
func NewSeries(instrument string, bars []Bar) *Series {
	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	index := make(map[int64]int, len(sorted))
	for i, b := range sorted {
		index[b.Time.Unix()] = i
	}
	return &Series{Instrument: instrument, bars: sorted, index: index}
}

// Len returns the number of bars in the series.
func (s *Series) Len() int { return len(s.bars) }

// At returns the i-th bar.
func (s *Series) At(i int) Bar { return s.bars[i] }

// Lookup returns the bar for the given session, if the instrument traded then.
func (s *Series) Lookup(t time.Time) (Bar, bool) {
	i, ok := s.index[t.Unix()]
	if !ok {
		return Bar{}, false
	}
	return s.bars[i], true
}

// WindowEndingAt returns the trailing n bars ending at session t, inclusive.
// It reports false when t is not in the series or fewer than n bars precede it.
func (s *Series) WindowEndingAt(t time.Time, n int) ([]Bar, bool) {
	i, ok := s.index[t.Unix()]
	if !ok || i+1 < n {
		return nil, false
	}
	window := make([]Bar, n)
	copy(window, s.bars[i+1-n:i+1])
	return window, true
}

// Calendar returns the sorted union of tradable sessions across all series,
// after trimming the leading historyWindow observations of each instrument.
func Calendar(series map[string]*Series, historyWindow int) ([]time.Time, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no price series supplied")
	}

	seen := make(map[int64]time.Time)
	for instrument, s := range series {
		if s.Len() <= historyWindow {
			return nil, fmt.Errorf("instrument %s has %d bars, need more than the %d-bar history window",
				instrument, s.Len(), historyWindow)
		}
		for _, b := range s.bars[historyWindow:] {
			seen[b.Time.Unix()] = b.Time
		}
	}

	sessions := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		sessions = append(sessions, t)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Before(sessions[j]) })
	return sessions, nil
}
