package backtest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/signals/market"
	"github.com/rustyeddy/signals/signal"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func drain(t *testing.T, f QuoteFeed) []Tick {
	t.Helper()
	var out []Tick
	for {
		tk, ok, err := f.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, tk)
	}
}

func TestParseQuoteRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		row     []string
		wantErr bool
		want    market.Quote
	}{
		{
			name: "valid row",
			row:  []string{"2026-01-24T09:30:00Z", "1.1002", "1.1000", "1.1001"},
			want: market.NewQuote(time.Date(2026, 1, 24, 9, 30, 0, 0, time.UTC), 1.1002, 1.1000, 1.1001),
		},
		{
			name: "nano timestamp and whitespace",
			row:  []string{" 2026-01-24T09:30:00.5Z ", " 2 ", " 1 ", " 1.5 "},
			want: market.NewQuote(time.Date(2026, 1, 24, 9, 30, 0, 500000000, time.UTC), 2, 1, 1.5),
		},
		{
			name: "last defaults to mid",
			row:  []string{"2026-01-24T09:30:00Z", "4", "2"},
			want: market.NewQuote(time.Date(2026, 1, 24, 9, 30, 0, 0, time.UTC), 4, 2, 3),
		},
		{name: "bad time", row: []string{"yesterday", "1", "1", "1"}, wantErr: true},
		{name: "bad price", row: []string{"2026-01-24T09:30:00Z", "x", "1", "1"}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q, err := parseQuoteRow(tt.row)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestCSVQuoteFeed(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "quotes.csv", `time,buy,sell,last
2024-01-01T00:00:00Z,101,100,100
# comment
2024-01-01T00:01:00Z,99,98,98

2024-01-01T00:02:00Z,96
2024-01-01T00:03:00Z,102,101,101
`)

	f, err := NewCSVQuoteFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	ticks := drain(t, f)
	require.Len(t, ticks, 3, "short rows are skipped")
	assert.Equal(t, 98.0, ticks[1].Quote.Last)
	assert.Nil(t, ticks[0].Aux)
}

func TestCSVQuoteFeedRange(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "quotes.csv", `2024-01-01T00:00:00Z,1,1,1
2024-01-01T00:01:00Z,2,2,2
2024-01-01T00:02:00Z,3,3,3
`)
	from := time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 2, 0, 0, time.UTC)

	f, err := NewCSVQuoteFeed(path, from, to)
	require.NoError(t, err)
	defer f.Close()

	ticks := drain(t, f)
	require.Len(t, ticks, 1)
	assert.Equal(t, 2.0, ticks[0].Quote.Last)
}

func TestCSVCandleFeed(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bars.csv", `time,open,high,low,close
2024-01-01T00:00:00Z,100,105,95,102
2024-01-01T01:00:00Z,102,103,90,91
`)
	f, err := NewCSVCandleFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	ticks := drain(t, f)
	require.Len(t, ticks, 2)
	assert.Equal(t, 91.0, ticks[1].Quote.Last)

	c, ok := ticks[1].Aux.(market.Candle)
	require.True(t, ok)
	low, high := c.PriceRange()
	assert.Equal(t, 90.0, low)
	assert.Equal(t, 103.0, high)
}

func TestCSVCandleFeedRejectsBrokenBar(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bars.csv", "2024-01-01T00:00:00Z,100,99,95,102\n")
	f, err := NewCSVCandleFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	_, _, err = f.Next()
	assert.ErrorContains(t, err, "bad candle")
}

func TestMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewCSVQuoteFeed(filepath.Join(t.TempDir(), "nope.csv"), time.Time{}, time.Time{})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestChartFeed(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := NewSliceFeed(
		market.NewQuote(t0, 1, 1, 1),
		market.NewQuote(t0.Add(30*time.Minute), 2, 2, 2),
		market.NewQuote(t0.Add(10*time.Minute), 3, 3, 3),
		market.NewQuote(t0.Add(70*time.Minute), 4, 4, 4),
	)
	f, err := NewChartFeed(src, time.Hour)
	require.NoError(t, err)

	_, _, err = f.Next()
	require.NoError(t, err)
	tk, _, err := f.Next()
	require.NoError(t, err)
	c := tk.Aux.(market.Chart)
	assert.Equal(t, 1, c.Len())

	_, _, err = f.Next()
	assert.ErrorIs(t, err, market.ErrNonMonotonicTimestamp)

	tk, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	c = tk.Aux.(market.Chart)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.Closed().Len())

	_, ok, err = f.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, f.Close())

	_, err = NewChartFeed(src, 0)
	assert.Error(t, err)
}

func TestChartFeedDropsDuplicateQuote(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := NewSliceFeed(
		market.NewQuote(t0, 101, 100, 100),
		market.NewQuote(t0, 201, 200, 200),
		market.NewQuote(t0.Add(time.Minute), 102, 101, 101),
	)
	f, err := NewChartFeed(src, time.Hour)
	require.NoError(t, err)

	engine, err := signal.NewEngine(market.MustSymbol("TEST", 1, 1), nil)
	require.NoError(t, err)
	stream := NewStream(f, engine)

	_, ok, err := stream.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = stream.Next()
	assert.True(t, ok)
	assert.ErrorIs(t, err, market.ErrNonMonotonicTimestamp)

	_, ok, err = stream.Next()
	require.NoError(t, err)
	require.True(t, ok)

	last, ok := f.agg.Chart().Last()
	require.True(t, ok)
	assert.Equal(t, 100.0, last.Open)
	assert.Equal(t, 101.0, last.High)
	assert.Equal(t, 101.0, last.Close)
	assert.Equal(t, 2, last.Ticks)
}
