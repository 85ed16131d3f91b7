package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/signals/backtest"
	"github.com/rustyeddy/signals/config"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest a strategy on one or more CSV files",
	Long: `Backtest replays CSV market data through one of the built-in strategies.
Several files are replayed in parallel with the same settings.

Supported strategies:
  - noop: never trades (baseline)
  - fixed-offset: waits a fixed number of ticks below the market
  - ema-cross: follows the fast/slow EMA regime of the chart (needs --timeframe)

Example:
  signals backtest --quotes data/eurusd.csv --symbol EUR_USD --strategy ema-cross --timeframe H1`,
	RunE: runBacktest,
}

var (
	btPaths     []string
	btCandles   bool
	btFrom      string
	btTo        string
	btTimeFrame string
	btStrict    bool

	btSymbol   string
	btTick     float64
	btLot      float64
	btFee      float64
	btInterest float64

	btStrategy string
	btSize     float64
	btLeverage float64
	btOffset   int
	btProfit   int
	btLoss     int
	btShort    bool
	btFast     int
	btSlow     int
	btMaxLoss  float64
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	f := backtestCmd.Flags()
	f.StringSliceVarP(&btPaths, "quotes", "q", nil, "CSV files (time,buy,sell,last) (required)")
	f.BoolVar(&btCandles, "candles", false, "files hold bars (time,open,high,low,close)")
	f.StringVar(&btFrom, "from", "", "first quote time (RFC3339, inclusive)")
	f.StringVar(&btTo, "to", "", "last quote time (RFC3339, exclusive)")
	f.StringVarP(&btTimeFrame, "timeframe", "t", "", "chart time frame handed to the strategy (e.g. M15, H1, 4h)")
	f.BoolVar(&btStrict, "strict", false, "fail on rejected strategy results instead of dropping them")

	f.StringVarP(&btSymbol, "symbol", "s", "EUR_USD", "symbol name")
	f.Float64Var(&btTick, "tick", 0, "tick size (0 uses the instrument preset)")
	f.Float64Var(&btLot, "lot", 0, "lot size (0 uses the instrument preset)")
	f.Float64Var(&btFee, "fee", 0, "fee rate per leg")
	f.Float64Var(&btInterest, "interest", 0, "interest rate per day on borrowed notional")

	def := config.Default().Strategy
	f.StringVar(&btStrategy, "strategy", "fixed-offset", "strategy name (noop, fixed-offset, ema-cross)")
	f.Float64Var(&btSize, "size", def.Size, "position size")
	f.Float64Var(&btLeverage, "leverage", def.Leverage, "leverage (>= 1)")
	f.IntVar(&btOffset, "offset", def.OffsetTicks, "entry distance from the market in ticks")
	f.IntVar(&btProfit, "profit", def.ProfitTicks, "profit target distance in ticks")
	f.IntVar(&btLoss, "loss", def.LossTicks, "loss limit distance in ticks")
	f.BoolVar(&btShort, "short", false, "fixed-offset: also place the short setup")
	f.IntVar(&btFast, "fast", def.Fast, "ema-cross: fast EMA period")
	f.IntVar(&btSlow, "slow", def.Slow, "ema-cross: slow EMA period")
	f.Float64Var(&btMaxLoss, "max-loss", 0, "size each setup so its loss limit costs at most this much (overrides --size)")

	backtestCmd.MarkFlagRequired("quotes")
}

// backtestConfig turns the flags into the config for one file.
func backtestConfig(path string) *config.Config {
	cfg := config.Default()
	cfg.Symbol = config.SymbolConfig{
		Name:             btSymbol,
		TickSize:         btTick,
		LotSize:          btLot,
		FeeRate:          btFee,
		InterestRate:     btInterest,
		InterestInterval: "24h",
	}
	cfg.Engine.Strict = btStrict
	cfg.Feed = config.FeedConfig{
		Path:      path,
		Format:    "ticks",
		TimeFrame: btTimeFrame,
		From:      btFrom,
		To:        btTo,
	}
	if btCandles {
		cfg.Feed.Format = "candles"
	}
	cfg.Strategy = config.StrategyConfig{
		Name:        btStrategy,
		Size:        btSize,
		Leverage:    btLeverage,
		OffsetTicks: btOffset,
		ProfitTicks: btProfit,
		LossTicks:   btLoss,
		Short:       btShort,
		Fast:        btFast,
		Slow:        btSlow,
		MaxLoss:     btMaxLoss,
	}
	cfg.Log.Level = logLevel
	return cfg
}

func runBacktest(cmd *cobra.Command, args []string) error {
	var runners []*backtest.Runner
	for _, path := range btPaths {
		cfg := backtestConfig(path)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		r, err := newRunner(cfg, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		runners = append(runners, r)
	}

	results, err := backtest.RunAll(cmd.Context(), runners)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	for i, res := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", btPaths[i])
		backtest.PrintResult(cmd.OutOrStdout(), res)
	}
	return nil
}
