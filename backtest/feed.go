// Package backtest replays quote feeds through a signal.Engine.
package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/signals/market"
)

// Tick is one feed element: a quote and the aux data handed to the engine
// and strategy along with it.
type Tick struct {
	Quote market.Quote
	Aux   any
}

// QuoteFeed yields ticks one at a time and returns (ok=false, err=nil) at
// the end. Implementations should be deterministic.
type QuoteFeed interface {
	Next() (t Tick, ok bool, err error)
	Close() error
}

// SliceFeed replays ticks held in memory.
type SliceFeed struct {
	ticks []Tick
	i     int
}

func NewSliceFeed(quotes ...market.Quote) *SliceFeed {
	ticks := make([]Tick, len(quotes))
	for i, q := range quotes {
		ticks[i] = Tick{Quote: q}
	}
	return &SliceFeed{ticks: ticks}
}

func NewTickFeed(ticks ...Tick) *SliceFeed {
	return &SliceFeed{ticks: ticks}
}

func (f *SliceFeed) Next() (Tick, bool, error) {
	if f.i >= len(f.ticks) {
		return Tick{}, false, nil
	}
	t := f.ticks[f.i]
	f.i++
	return t, true, nil
}

func (f *SliceFeed) Close() error { return nil }

// csvFeed holds what the quote and candle CSV feeds share: the file, a
// header skip and the [from, to) filter.
type csvFeed struct {
	f    *os.File
	r    *csv.Reader
	from time.Time
	to   time.Time

	sawFirst bool
}

func openCSV(path string, from, to time.Time) (csvFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return csvFeed{}, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	return csvFeed{f: f, r: r, from: from, to: to}, nil
}

func (c *csvFeed) Close() error {
	if c.f != nil {
		return c.f.Close()
	}
	return nil
}

// row returns the next data row with at least n columns, skipping a header
// row ("time,...") and empty or short rows.
func (c *csvFeed) row(n int) ([]string, bool, error) {
	for {
		row, err := c.r.Read()
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if len(row) == 0 {
			continue
		}
		if !c.sawFirst {
			c.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		if len(row) < n || strings.TrimSpace(row[0]) == "" {
			continue
		}
		return row, true, nil
	}
}

// CSVQuoteFeed reads quote rows:
//
//	time,buy,sell,last
//
// where time is RFC3339 or RFC3339Nano. A missing last defaults to the mid.
type CSVQuoteFeed struct {
	csvFeed
}

func NewCSVQuoteFeed(path string, from, to time.Time) (*CSVQuoteFeed, error) {
	c, err := openCSV(path, from, to)
	if err != nil {
		return nil, err
	}
	return &CSVQuoteFeed{csvFeed: c}, nil
}

func (f *CSVQuoteFeed) Next() (Tick, bool, error) {
	for {
		row, ok, err := f.row(3)
		if err != nil || !ok {
			return Tick{}, false, err
		}
		q, err := parseQuoteRow(row)
		if err != nil {
			return Tick{}, false, err
		}
		if !inRange(q.Time, f.from, f.to) {
			continue
		}
		return Tick{Quote: q}, true, nil
	}
}

func parseQuoteRow(row []string) (market.Quote, error) {
	t, err := parseTime(row[0])
	if err != nil {
		return market.Quote{}, err
	}
	vals, err := parseFloats(row[1:min(len(row), 4)], "buy", "sell", "last")
	if err != nil {
		return market.Quote{}, err
	}
	buy, sell := vals[0], vals[1]
	last := (buy + sell) / 2
	if len(vals) > 2 {
		last = vals[2]
	}
	return market.NewQuote(t, buy, sell, last), nil
}

// CSVCandleFeed replays bars:
//
//	time,open,high,low,close
//
// Each bar becomes a quote at its close price stamped with the bar time,
// with the Candle as aux data so the engine sees the bar's full range.
type CSVCandleFeed struct {
	csvFeed
}

func NewCSVCandleFeed(path string, from, to time.Time) (*CSVCandleFeed, error) {
	c, err := openCSV(path, from, to)
	if err != nil {
		return nil, err
	}
	return &CSVCandleFeed{csvFeed: c}, nil
}

func (f *CSVCandleFeed) Next() (Tick, bool, error) {
	for {
		row, ok, err := f.row(5)
		if err != nil || !ok {
			return Tick{}, false, err
		}
		c, err := parseCandleRow(row)
		if err != nil {
			return Tick{}, false, err
		}
		if !inRange(c.Time, f.from, f.to) {
			continue
		}
		return Tick{Quote: market.NewQuote(c.Time, c.Close, c.Close, c.Close), Aux: c}, true, nil
	}
}

func parseCandleRow(row []string) (market.Candle, error) {
	t, err := parseTime(row[0])
	if err != nil {
		return market.Candle{}, err
	}
	v, err := parseFloats(row[1:5], "open", "high", "low", "close")
	if err != nil {
		return market.Candle{}, err
	}
	c := market.Candle{Time: t.UTC(), Open: v[0], High: v[1], Low: v[2], Close: v[3], Ticks: 1}
	if !c.Valid() {
		return market.Candle{}, fmt.Errorf("bad candle at %s: %s", row[0], c)
	}
	return c, nil
}

// ChartFeed attaches the running Chart of the wrapped feed's quotes as aux
// data, replacing whatever aux the wrapped feed had.
type ChartFeed struct {
	src QuoteFeed
	agg *market.Aggregator
}

func NewChartFeed(src QuoteFeed, tf time.Duration) (*ChartFeed, error) {
	agg, err := market.NewAggregator(tf)
	if err != nil {
		return nil, err
	}
	return &ChartFeed{src: src, agg: agg}, nil
}

// Next returns market.ErrNonMonotonicTimestamp for a quote the chart cannot
// take; the feed stays usable.
func (f *ChartFeed) Next() (Tick, bool, error) {
	t, ok, err := f.src.Next()
	if err != nil || !ok {
		return t, ok, err
	}
	chart, err := f.agg.Add(t.Quote)
	if err != nil {
		return Tick{}, true, err
	}
	t.Aux = chart
	return t, true, nil
}

func (f *ChartFeed) Close() error { return f.src.Close() }

func parseTime(s string) (time.Time, error) {
	ts := strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}
	return t, nil
}

func parseFloats(cols []string, names ...string) ([]float64, error) {
	out := make([]float64, len(cols))
	for i, c := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil, fmt.Errorf("bad %s %q: %w", names[i], c, err)
		}
		out[i] = v
	}
	return out, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
