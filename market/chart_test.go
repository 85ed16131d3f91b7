package market

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func q(at time.Duration, last float64) Quote {
	return NewQuote(t0.Add(at), last, last, last)
}

func TestChartTwoBuckets(t *testing.T) {
	t.Parallel()

	quotes := []Quote{
		q(0, 100),
		q(10*time.Minute, 104),
		q(20*time.Minute, 97),
		q(59*time.Minute, 101),
		q(61*time.Minute, 102),
		q(90*time.Minute, 99),
	}

	c, err := ChartFromQuotes(time.Hour, quotes)
	require.NoError(t, err)

	require.Equal(t, 2, c.Len())
	assert.True(t, c.IsLastOpen())

	first := c.At(0)
	assert.Equal(t, t0, first.Time)
	assert.Equal(t, Candle{Time: t0, Open: 100, High: 104, Low: 97, Close: 101, Ticks: 4}, first)

	second, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, t0.Add(time.Hour), second.Time)
	assert.Equal(t, 102.0, second.Open)
	assert.Equal(t, 99.0, second.Close)
	assert.Equal(t, quotes[len(quotes)-1].Last, second.Close)

	closed := c.Closed()
	assert.Equal(t, 1, closed.Len())
	assert.False(t, closed.IsLastOpen())
	last, ok := closed.Last()
	require.True(t, ok)
	assert.Equal(t, first, last)
}

func TestChartCandlesKeepOHLCInvariant(t *testing.T) {
	t.Parallel()

	prices := []float64{10, 12, 8, 11, 15, 3, 7, 7, 9, 20, 1}
	a, err := NewAggregator(15 * time.Minute)
	require.NoError(t, err)

	for i, p := range prices {
		c, err := a.Add(q(time.Duration(i)*7*time.Minute, p))
		require.NoError(t, err)
		for _, cd := range c.Candles() {
			assert.True(t, cd.Valid(), "candle %s", cd)
		}
	}
}

func TestAggregatorEmitsOneSnapshotPerQuote(t *testing.T) {
	t.Parallel()

	a, err := NewAggregator(time.Minute)
	require.NoError(t, err)

	var snaps []Chart
	for i := 0; i < 5; i++ {
		c, err := a.Add(q(time.Duration(i)*30*time.Second, float64(100+i)))
		require.NoError(t, err)
		snaps = append(snaps, c)
	}

	lens := []int{1, 1, 2, 2, 3}
	for i, c := range snaps {
		assert.Equal(t, lens[i], c.Len(), "snapshot %d", i)
	}

	// earlier snapshots are not disturbed by later quotes
	first := snaps[1].At(0)
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 101.0, first.Close)
	assert.True(t, snaps[1].IsLastOpen())
}

func TestChartAddIsPure(t *testing.T) {
	t.Parallel()

	c, err := NewChart(time.Minute)
	require.NoError(t, err)

	c1, err := c.Add(q(0, 1))
	require.NoError(t, err)
	c2, err := c1.Add(q(time.Minute, 2))
	require.NoError(t, err)
	c3, err := c1.Add(q(2*time.Minute, 3))
	require.NoError(t, err)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, c1.Len())
	assert.Equal(t, 2.0, c2.At(1).Close)
	assert.Equal(t, 3.0, c3.At(1).Close)
	assert.Equal(t, c2.At(0), c3.At(0))
}

func TestChartRejectsOlderQuotes(t *testing.T) {
	t.Parallel()

	a, err := NewAggregator(time.Minute)
	require.NoError(t, err)

	_, err = a.Add(q(time.Minute, 1))
	require.NoError(t, err)
	_, err = a.Add(q(0, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonMonotonicTimestamp))

	_, err = a.Add(q(time.Minute, 9))
	assert.ErrorIs(t, err, ErrNonMonotonicTimestamp, "same time as the last quote")
	last, ok := a.Chart().Last()
	require.True(t, ok)
	assert.Equal(t, Candle{Time: t0.Add(time.Minute), Open: 1, High: 1, Low: 1, Close: 1, Ticks: 1}, last)

	// the aggregator is still usable
	c, err := a.Add(q(2*time.Minute, 5))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestChartRestartable(t *testing.T) {
	t.Parallel()

	quotes := []Quote{q(0, 5), q(time.Minute, 6), q(3*time.Minute, 4)}
	a, err := ChartFromQuotes(time.Minute, quotes)
	require.NoError(t, err)
	b, err := ChartFromQuotes(time.Minute, quotes)
	require.NoError(t, err)
	assert.Equal(t, a.Candles(), b.Candles())
}

func TestNewChartRejectsZeroTimeFrame(t *testing.T) {
	t.Parallel()

	_, err := NewChart(0)
	assert.Error(t, err)
	_, err = NewAggregator(-time.Second)
	assert.Error(t, err)
}
