package analytics

import (
	"fmt"
	"io"
	"time"
)

// WriteSummary prints a human-readable report of one finished run.
func WriteSummary(w io.Writer, runID string, start, end time.Time, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Run ID:           %s\n", runID)
	fmt.Fprintf(w, "Start:            %s\n", start.Format("2006-01-02"))
	fmt.Fprintf(w, "End:              %s\n", end.Format("2006-01-02"))
	fmt.Fprintf(w, "Years Traded:     %.2f\n", s.YearsTraded)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Value:      %s\n", s.StartValue.StringFixed(2))
	fmt.Fprintf(w, "End Value:        %s\n", s.EndValue.StringFixed(2))
	fmt.Fprintf(w, "Net PnL:          %s\n", s.NetPnL.StringFixed(2))
	fmt.Fprintf(w, "Total Return:     %.2f%%\n", s.TotalReturn*100)
	fmt.Fprintf(w, "Annual Return:    %.2f%%\n", s.AnnualReturn*100)
	fmt.Fprintf(w, "Annual Vol:       %.2f%%\n", s.AnnualVolatility*100)
	fmt.Fprintf(w, "CAGR:             %.2f%%\n", s.CAGR*100)
	fmt.Fprintf(w, "Max Drawdown:     %.2f%%\n", s.MaxDrawdown*100)
	fmt.Fprintf(w, "Sharpe Ratio:     %.3f\n", s.SharpeRatio)
	fmt.Fprintf(w, "Sortino Ratio:    %.3f\n", s.SortinoRatio)
	fmt.Fprintf(w, "MAR Ratio:        %.3f\n", s.MARRatio)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total Trades:     %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Winning Trades:   %d\n", s.WinningTrades)
	fmt.Fprintf(w, "Losing Trades:    %d\n", s.LosingTrades)
	fmt.Fprintf(w, "Avg Winner:       %.2f%%\n", s.AvgWinningTrade*100)
	fmt.Fprintf(w, "Avg Loser:        %.2f%%\n", s.AvgLosingTrade*100)
	fmt.Fprintln(w, "==================================================")
}
