package resultstore

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/tradesim/internal/analytics"
	"github.com/your-org/tradesim/internal/backtest"
	"github.com/your-org/tradesim/internal/ledger"
)

func TestSaveRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	result := &backtest.RunResult{
		RunID: "run-1",
		Start: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Snapshots: []ledger.Snapshot{
			{Time: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Cash: 10000},
			{Time: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Cash: 95, Invested: 9900, PnL: -5},
		},
		Summary: analytics.Summary{
			StartValue: decimal.NewFromInt(10000),
			EndValue:   decimal.NewFromInt(9995),
			NetPnL:     decimal.NewFromInt(-5),
		},
	}

	mock.ExpectExec("INSERT INTO backtest_runs").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(
		pgx.Identifier{"backtest_daily"},
		[]string{"run_id", "time", "cash", "invested", "portfolio_value", "pnl", "daily_return", "commission"},
	)

	store := New(mock, zap.NewNop())
	require.NoError(t, store.SaveRun(context.Background(), result))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRunInsertFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO backtest_runs").
		WillReturnError(context.DeadlineExceeded)

	store := New(mock, zap.NewNop())
	err = store.SaveRun(context.Background(), &backtest.RunResult{RunID: "run-2"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
