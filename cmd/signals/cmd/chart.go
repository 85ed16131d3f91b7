package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/signals/backtest"
	"github.com/rustyeddy/signals/indicators"
	"github.com/rustyeddy/signals/market"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Aggregate a quote CSV into OHLC candles",
	Long: `Chart folds the last prices of a quote CSV into candles of the given
time frame and prints them, the still open candle last.

Example:
  signals chart --quotes data/eurusd.csv --timeframe H1`,
	RunE: runChart,
}

var (
	chartPath      string
	chartTimeFrame string
	chartMA        int
	chartEMA       int
)

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringVarP(&chartPath, "quotes", "q", "", "CSV file (time,buy,sell,last) (required)")
	chartCmd.Flags().StringVarP(&chartTimeFrame, "timeframe", "t", "H1", "candle time frame (e.g. M5, H1, 90m)")
	chartCmd.Flags().IntVar(&chartMA, "ma", 0, "also print the simple moving average of the closed candles")
	chartCmd.Flags().IntVar(&chartEMA, "ema", 0, "also print the exponential moving average of the closed candles")
	chartCmd.MarkFlagRequired("quotes")
}

func runChart(cmd *cobra.Command, args []string) error {
	tf, err := market.ParseTimeFrame(chartTimeFrame)
	if err != nil {
		return err
	}
	feed, err := backtest.NewCSVQuoteFeed(chartPath, time.Time{}, time.Time{})
	if err != nil {
		return fmt.Errorf("open quotes: %w", err)
	}
	defer feed.Close()

	agg, err := market.NewAggregator(tf)
	if err != nil {
		return err
	}
	for {
		t, ok, err := feed.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if _, err := agg.Add(t.Quote); err != nil {
			logger.Warn("quote skipped", zap.Time("time", t.Quote.Time), zap.Error(err))
		}
	}

	c := agg.Chart()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s candles: %d\n", market.TimeFrameString(tf), c.Len())
	for i := 0; i < c.Len(); i++ {
		cd := c.At(i)
		mark := ""
		if i == c.Len()-1 && c.IsLastOpen() {
			mark = " (open)"
		}
		fmt.Fprintf(w, "%s ticks=%d%s\n", cd, cd.Ticks, mark)
	}

	closed := c.Closed().Candles()
	if chartMA > 0 {
		printAverage(w, fmt.Sprintf("MA(%d)", chartMA), closed, chartMA, indicators.MA)
	}
	if chartEMA > 0 {
		printAverage(w, fmt.Sprintf("EMA(%d)", chartEMA), closed, chartEMA, indicators.EMA)
	}
	return nil
}

func printAverage(w io.Writer, name string, candles []market.Candle, period int, avg func([]market.Candle, int) (float64, error)) {
	v, err := avg(candles, period)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", name, err)
		return
	}
	fmt.Fprintf(w, "%s: %g\n", name, v)
}
