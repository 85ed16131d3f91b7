package backtest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rustyeddy/signals/market"
	"github.com/rustyeddy/signals/signal"
)

// errorFeed fails on every Next.
type errorFeed struct{ closed bool }

func (e *errorFeed) Next() (Tick, bool, error) { return Tick{}, false, errors.New("mock error") }
func (e *errorFeed) Close() error              { e.closed = true; return nil }

func TestRunnerValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := (&Runner{Feed: NewSliceFeed()}).Run(ctx)
	assert.ErrorContains(t, err, "Engine is required")

	_, err = (&Runner{Engine: testEngine(t)}).Run(ctx)
	assert.ErrorContains(t, err, "Feed is required")
}

func TestRunnerRun(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	quotes := append(scenario(), quoteAt(4, 104)) // duplicate time, skipped
	r := &Runner{Name: "long-once", Feed: NewSliceFeed(quotes...), Engine: testEngine(t), Log: zap.New(core)}

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.RunID, 26)
	assert.Equal(t, "TEST", res.Symbol)
	assert.Equal(t, 5, res.Quotes)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, t0, res.Start)
	assert.Equal(t, quoteAt(4, 0).Time, res.End)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, signal.ExitProfitTarget, res.Trades[0].Reason)
	assert.Equal(t, 50.0, res.Final.Performance.Profit)

	assert.Equal(t, 1, logs.FilterMessage("trade closed").Len())
	assert.Equal(t, 1, logs.FilterMessage("tick skipped").Len())
	assert.Equal(t, 1, logs.FilterMessage("run finished").Len())
}

func TestRunnerCountsRejections(t *testing.T) {
	t.Parallel()

	sym := market.MustSymbol("TEST", 1, 1)
	bad := func(s signal.Signal, _ any) signal.Signal {
		return s.SetShortTradeSetup(signal.ShortSetup(sym, 50, 1, 40, 60, 1))
	}
	e, err := signal.NewEngine(sym, bad)
	require.NoError(t, err)

	res, err := (&Runner{Feed: NewSliceFeed(scenario()...), Engine: e}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Rejections)
	assert.Equal(t, 5, res.Quotes)
	assert.Empty(t, res.Trades)
}

func TestRunnerFeedError(t *testing.T) {
	t.Parallel()

	feed := &errorFeed{}
	_, err := (&Runner{Feed: feed, Engine: testEngine(t)}).Run(context.Background())
	assert.ErrorContains(t, err, "mock error")
	assert.True(t, feed.closed)
}

func TestRunnerCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Runner{Feed: NewSliceFeed(scenario()...), Engine: testEngine(t)}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll(t *testing.T) {
	t.Parallel()

	runners := make([]*Runner, 4)
	for i := range runners {
		runners[i] = &Runner{Feed: NewSliceFeed(scenario()...), Engine: testEngine(t)}
	}
	results, err := RunAll(context.Background(), runners)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, res := range results {
		assert.Len(t, res.Trades, 1)
		assert.Equal(t, results[0].Final.Performance, res.Final.Performance)
	}

	runners = []*Runner{
		{Feed: NewSliceFeed(scenario()...), Engine: testEngine(t)},
		{Feed: &errorFeed{}, Engine: testEngine(t)},
	}
	_, err = RunAll(context.Background(), runners)
	assert.Error(t, err)
}

func TestPrintResult(t *testing.T) {
	t.Parallel()

	res, err := (&Runner{Name: "long-once", Feed: NewSliceFeed(scenario()...), Engine: testEngine(t)}).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintResult(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "Symbol:        TEST")
	assert.Contains(t, out, "Strategy:      long-once")
	assert.Contains(t, out, "Trades:        1")
	assert.Contains(t, out, "Net P/L:       50.00")
	assert.Contains(t, out, "profit_target")

	buf.Reset()
	PrintResult(&buf, Result{Symbol: "EMPTY"})
	assert.Contains(t, buf.String(), "No quotes.")
}
