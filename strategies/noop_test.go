package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/signals/market"
	"github.com/rustyeddy/signals/signal"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func stepped(t *testing.T, sym market.Symbol, last float64) signal.Signal {
	t.Helper()
	s, err := signal.Step(nil, market.NewQuote(t0, last+sym.TickSize, last, last), nil, sym)
	require.NoError(t, err)
	return s
}

func TestNoopStrategy(t *testing.T) {
	t.Parallel()

	s := stepped(t, market.MustSymbol("X", 1, 1), 100)
	assert.Equal(t, s, Noop(s, nil))
}

func TestByName(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	for _, name := range []string{"noop", "none", "", "fixed-offset", "EMA-Cross", "emacross"} {
		strat, err := ByName(name, p)
		require.NoError(t, err, name)
		assert.NotNil(t, strat, name)
	}

	_, err := ByName("martingale", p)
	assert.ErrorContains(t, err, "unknown strategy")

	bad := p
	bad.Fast, bad.Slow = 30, 10
	_, err = ByName("ema-cross", bad)
	assert.Error(t, err)

	bad = p
	bad.Size = 0
	_, err = ByName("fixed-offset", bad)
	assert.Error(t, err)

	assert.Equal(t, []string{"ema-cross", "fixed-offset", "noop"}, Names())
}
