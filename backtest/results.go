package backtest

import (
	"fmt"
	"io"
	"time"
)

func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Signal Run")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Symbol:        %s\n", r.Symbol)
	if r.Strategy != "" {
		fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	if r.Quotes == 0 {
		fmt.Fprintln(w, "No quotes.")
	} else {
		fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Quotes:        %d\n", r.Quotes)
	if r.Skipped > 0 {
		fmt.Fprintf(w, "Skipped:       %d\n", r.Skipped)
	}
	if r.Rejections > 0 {
		fmt.Fprintf(w, "Rejections:    %d\n", r.Rejections)
	}

	p := r.Final.Performance
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", p.TradesClosed)
	fmt.Fprintf(w, "Wins:          %d\n", p.TradesWon)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", p.WinRate*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Investment:    %.2f\n", p.Investment)
	fmt.Fprintf(w, "Equity:        %.2f\n", p.Equity)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", p.Profit)
	fmt.Fprintf(w, "Return:        %.2f%%\n", p.ROI*100)
	if p.MaxDrawdown > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", p.MaxDrawdown*100)
		fmt.Fprintf(w, "RoMaD:         %.2f\n", p.RoMaD)
	}
	q := r.Final.Account.Quote
	fmt.Fprintf(w, "Fees:          %.2f\n", q.PaidFees)
	if q.PaidInterest != 0 {
		fmt.Fprintf(w, "Interest:      %.2f\n", q.PaidInterest)
	}

	if pos := r.Final.Position; pos.Open {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Open Position")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "%s %v @ %v (mark %v, P/L %.2f)\n", pos.Direction, pos.Size, pos.EntryPrice, pos.MarkPrice, pos.Profit)
	}

	if len(r.Trades) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Trades")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, t := range r.Trades {
			fmt.Fprintf(w, "%s %-5s %v -> %v %-13s %10.2f\n",
				t.ExitTime.Format(time.RFC3339), t.Direction, t.EntryPrice, t.ExitPrice, t.Reason, t.NetProfit)
		}
	}

	fmt.Fprintln(w)
}
