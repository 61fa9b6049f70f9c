package market

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,open,high,low,close
2024-01-02,100.0,101.5,99.0,101.0
2024-01-03,101.0,102.0,100.5,101.5
not-a-date,1,2,3,4
2024-01-04,101.5,bad,100.0,100.5
2024-01-05,101.0,103.0,100.0,102.5
`

func TestLoadSeriesFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SPY.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	s, err := LoadSeriesFromCSV(path, "SPY")
	require.NoError(t, err)

	// The two malformed rows are skipped, three bars survive.
	require.Equal(t, 3, s.Len())
	assert.Equal(t, "SPY", s.Instrument)
	first := s.At(0)
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 101.5, first.High)
	assert.Equal(t, 99.0, first.Low)
	assert.Equal(t, 101.0, first.Close)
	assert.Equal(t, 102.5, s.At(2).Close)
}

func TestLoadSeriesFromCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	_, err := LoadSeriesFromCSV(path, "SPY")
	assert.Error(t, err)
}

func TestLoadSeriesFromCSVHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,open,high,low,close\n"), 0644))

	_, err := LoadSeriesFromCSV(path, "SPY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid bars")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SPY.csv"), []byte(sampleCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GLD.csv"), []byte(sampleCSV), 0644))

	series, err := LoadDir(dir, []string{"SPY", "GLD"})
	require.NoError(t, err)
	assert.Len(t, series, 2)
	assert.Equal(t, 3, series["GLD"].Len())

	_, err = LoadDir(dir, []string{"SPY", "MISSING"})
	assert.Error(t, err)
}
