package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/signals/backtest"
	"github.com/rustyeddy/signals/config"
	"github.com/rustyeddy/signals/signal"
	"github.com/rustyeddy/signals/strategies"
)

// newRunner wires feed, strategy and engine for a validated config.
func newRunner(cfg *config.Config, log *zap.Logger) (*backtest.Runner, error) {
	sym, err := cfg.MarketSymbol()
	if err != nil {
		return nil, err
	}
	strat, err := strategies.ByName(cfg.Strategy.Name, cfg.Params())
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}
	engine, err := signal.NewEngine(sym, strat, signal.WithStrict(cfg.Engine.Strict))
	if err != nil {
		return nil, err
	}

	from, to, err := cfg.Window()
	if err != nil {
		return nil, err
	}
	var feed backtest.QuoteFeed
	switch cfg.Feed.Format {
	case "candles":
		feed, err = backtest.NewCSVCandleFeed(cfg.Feed.Path, from, to)
	default:
		feed, err = backtest.NewCSVQuoteFeed(cfg.Feed.Path, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}

	tf, err := cfg.TimeFrame()
	if err != nil {
		feed.Close()
		return nil, err
	}
	if tf > 0 {
		chart, err := backtest.NewChartFeed(feed, tf)
		if err != nil {
			feed.Close()
			return nil, err
		}
		feed = chart
	}

	return &backtest.Runner{
		Name:   cfg.Strategy.Name,
		Feed:   feed,
		Engine: engine,
		Log:    log.With(zap.String("feed", cfg.Feed.Path)),
	}, nil
}
