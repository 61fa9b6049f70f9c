// Package resultstore persists sealed run results to PostgreSQL so sweeps can
// be compared across invocations. The simulation itself never touches it; a
// run is written once, after it completes.
package resultstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/your-org/tradesim/internal/backtest"
)

// Pool abstracts pgxpool.Pool for testability.
type Pool interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Close()
}

// Store writes run results through a connection pool it does not own.
type Store struct {
	pool   Pool
	logger *zap.Logger
}

// New wraps an existing pool.
func New(pool Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Connect opens a pgx connection pool for the given DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies all pending schema migrations from the given directory.
func Migrate(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// SaveRun writes the run's summary row and its daily ledger. The daily rows go
// through CopyFrom since a multi-year run has thousands of them.
func (s *Store) SaveRun(ctx context.Context, result *backtest.RunResult) error {
	summary := result.Summary
	_, err := s.pool.Exec(ctx, `
        INSERT INTO backtest_runs (
            run_id, start_date, end_date, years_traded,
            start_value, end_value, net_pnl,
            total_return, annual_return, annual_volatility, cagr, max_drawdown,
            sharpe_ratio, sortino_ratio, mar_ratio,
            total_trades, winning_trades, losing_trades
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		result.RunID, result.Start, result.End, summary.YearsTraded,
		summary.StartValue, summary.EndValue, summary.NetPnL,
		summary.TotalReturn, summary.AnnualReturn, summary.AnnualVolatility, summary.CAGR, summary.MaxDrawdown,
		summary.SharpeRatio, summary.SortinoRatio, summary.MARRatio,
		summary.TotalTrades, summary.WinningTrades, summary.LosingTrades,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", result.RunID, err)
	}

	rows := make([][]interface{}, 0, len(result.Snapshots))
	for _, snap := range result.Snapshots {
		rows = append(rows, []interface{}{
			result.RunID, snap.Time, snap.Cash, snap.Invested,
			snap.PortfolioValue(), snap.PnL, snap.Return, snap.Commission,
		})
	}
	_, err = s.pool.CopyFrom(ctx,
		pgx.Identifier{"backtest_daily"},
		[]string{"run_id", "time", "cash", "invested", "portfolio_value", "pnl", "daily_return", "commission"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy daily rows for run %s: %w", result.RunID, err)
	}
	s.logger.Info("Saved run",
		zap.String("runID", result.RunID), zap.Int("dailyRows", len(result.Snapshots)))
	return nil
}
