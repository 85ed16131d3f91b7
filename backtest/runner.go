package backtest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/signals/internal/id"
	"github.com/rustyeddy/signals/signal"
)

// Runner drains one feed through one engine.
type Runner struct {
	Name   string // strategy name, for the report
	Feed   QuoteFeed
	Engine *signal.Engine
	Log    *zap.Logger
}

// Result is the summary of a run.
type Result struct {
	RunID    string
	Strategy string
	Symbol   string

	Final  signal.Signal
	Trades []signal.ClosedTrade

	Quotes     int // ticks that produced a Signal
	Rejections int // strategy results the engine refused
	Skipped    int // ticks dropped with a recoverable error

	Start time.Time
	End   time.Time
}

// Run executes the loop:
//  1. read the next tick
//  2. engine.Update (step, then strategy)
//  3. record closed trades and rejections
//
// Recoverable errors skip the tick, anything else ends the run.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Engine == nil {
		return Result{}, fmt.Errorf("backtest: Engine is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	defer r.Feed.Close()

	res := Result{
		RunID:    id.New(),
		Strategy: r.Name,
		Symbol:   r.Engine.Symbol().Name,
	}
	log = log.With(zap.String("run", res.RunID), zap.String("symbol", res.Symbol))

	stream := NewStream(r.Feed, r.Engine)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		s, ok, err := stream.Next()
		if err != nil {
			if !Recoverable(err) {
				return res, fmt.Errorf("run %s: %w", res.Symbol, err)
			}
			res.Skipped++
			log.Warn("tick skipped", zap.Error(err))
			continue
		}
		if !ok {
			break
		}

		res.Quotes++
		if res.Start.IsZero() {
			res.Start = s.Time
		}
		res.End = s.Time

		if s.Rejection != nil {
			res.Rejections++
			log.Warn("strategy result rejected", zap.Time("time", s.Time), zap.Error(s.Rejection))
		}
		if !s.Trade.IsZero() {
			res.Trades = append(res.Trades, s.Trade)
			log.Info("trade closed",
				zap.String("trade", s.Trade.ID),
				zap.Stringer("direction", s.Trade.Direction),
				zap.Float64("entry", s.Trade.EntryPrice),
				zap.Float64("exit", s.Trade.ExitPrice),
				zap.String("reason", string(s.Trade.Reason)),
				zap.Float64("net", s.Trade.NetProfit))
		}
		res.Final = s
	}

	log.Info("run finished",
		zap.Int("quotes", res.Quotes),
		zap.Int("trades", len(res.Trades)),
		zap.Int("rejections", res.Rejections),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// RunAll runs independent runners in parallel. Results keep the order of
// runners; the first failure cancels the others.
func RunAll(ctx context.Context, runners []*Runner) ([]Result, error) {
	results := make([]Result, len(runners))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range runners {
		i, r := i, r
		g.Go(func() error {
			res, err := r.Run(ctx)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
