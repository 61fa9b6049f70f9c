// Package csvwriter exports a run's daily ledger as CSV.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/your-org/tradesim/internal/ledger"
)

// Writer is a simple CSV writer.
type Writer struct {
	file   *os.File
	writer *csv.Writer
	logger *zap.Logger
	mu     sync.Mutex
}

// NewWriter creates a new CSV writer.
func NewWriter(filePath string, logger *zap.Logger) (*Writer, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	return &Writer{
		file:   file,
		writer: csv.NewWriter(file),
		logger: logger,
	}, nil
}

// Write writes a record to the CSV file.
func (w *Writer) Write(record []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record to CSV: %w", err)
	}
	return nil
}

// Flush flushes any buffered data to the underlying file.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writer.Flush()
}

// Close closes the file.
func (w *Writer) Close() error {
	w.Flush()
	return w.file.Close()
}

// ledgerHeader is the column layout of an exported daily ledger.
var ledgerHeader = []string{
	"date", "cash", "invested", "portfolio_value", "pnl", "return", "commission", "transactions",
}

// WriteLedger exports the time-ordered snapshots to filePath, one row per
// session. Transactions are flattened into a semicolon-separated column.
func WriteLedger(filePath string, snaps []ledger.Snapshot, logger *zap.Logger) error {
	w, err := NewWriter(filePath, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Write(ledgerHeader); err != nil {
		return err
	}
	for _, snap := range snaps {
		if err := w.Write(snapshotRecord(snap)); err != nil {
			return err
		}
	}
	w.Flush()
	logger.Info("Exported daily ledger", zap.String("path", filePath), zap.Int("rows", len(snaps)))
	return nil
}

func snapshotRecord(snap ledger.Snapshot) []string {
	instruments := make([]string, 0, len(snap.Transactions))
	for instrument := range snap.Transactions {
		instruments = append(instruments, instrument)
	}
	sort.Strings(instruments)

	txs := ""
	for i, instrument := range instruments {
		tx := snap.Transactions[instrument]
		if i > 0 {
			txs += ";"
		}
		txs += fmt.Sprintf("%s %s %d@%.4f", tx.Type, instrument, tx.Shares, tx.Price)
	}

	return []string{
		snap.Time.Format("2006-01-02"),
		strconv.FormatFloat(snap.Cash, 'f', 2, 64),
		strconv.FormatFloat(snap.Invested, 'f', 2, 64),
		strconv.FormatFloat(snap.PortfolioValue(), 'f', 2, 64),
		strconv.FormatFloat(snap.PnL, 'f', 2, 64),
		strconv.FormatFloat(snap.Return, 'f', 6, 64),
		strconv.FormatFloat(snap.Commission, 'f', 2, 64),
		txs,
	}
}
