package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/your-org/tradesim/pkg/logger"
)

// LoadSeriesFromCSV reads one instrument's daily bars from a CSV file.
// The file is expected to have a header and the following columns:
// date, open, high, low, close
func LoadSeriesFromCSV(filePath, instrument string) (*Series, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Read the header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv file %s is empty", filePath)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var bars []Bar
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		if len(record) < 5 {
			logger.Warnf("Skipping record due to invalid number of columns: expected 5, got %d", len(record))
			continue
		}

		barTime, err := parseDate(record[0])
		if err != nil {
			logger.Warnf("Skipping record due to date parse error: %v", err)
			continue
		}

		prices := make([]float64, 4)
		ok := true
		for i := 1; i < 5; i++ {
			prices[i-1], err = strconv.ParseFloat(record[i], 64)
			if err != nil {
				logger.Warnf("Skipping record due to price parse error: %v", err)
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		bars = append(bars, Bar{
			Time:  barTime,
			Open:  prices[0],
			High:  prices[1],
			Low:   prices[2],
			Close: prices[3],
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no valid bars found in %s", filePath)
	}
	logger.Infof("Loaded %d bars for %s from %s", len(bars), instrument, filePath)
	return NewSeries(instrument, bars), nil
}

// LoadDir loads <instrument>.csv from dir for every requested instrument.
func LoadDir(dir string, instruments []string) (map[string]*Series, error) {
	series := make(map[string]*Series, len(instruments))
	for _, instrument := range instruments {
		path := filepath.Join(dir, instrument+".csv")
		s, err := LoadSeriesFromCSV(path, instrument)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", instrument, err)
		}
		series[instrument] = s
	}
	return series, nil
}

func parseDate(value string) (time.Time, error) {
	const layout = "2006-01-02"
	t, err := time.Parse(layout, value)
	if err != nil {
		// Fallback for exports that carry a full timestamp.
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("could not parse date '%s' with any known format", value)
		}
	}
	return t.UTC(), nil
}
