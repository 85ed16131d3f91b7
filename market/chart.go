package market

import (
	"fmt"
	"time"
)

// Chart is an immutable, time ordered series of candles of one time frame.
// Every candle but the last is closed; the last one may still be open, that
// is, accumulating quotes of the current bucket.
type Chart struct {
	tf      time.Duration
	closed  []Candle // capacity is clipped to len so appends always copy
	current Candle
	open    bool
	last    time.Time
}

// NewChart returns an empty chart.
func NewChart(tf time.Duration) (Chart, error) {
	if tf <= 0 {
		return Chart{}, fmt.Errorf("chart: time frame must be positive, got %s", tf)
	}
	return Chart{tf: tf}, nil
}

// ChartFromQuotes replays quotes into a fresh chart.
func ChartFromQuotes(tf time.Duration, quotes []Quote) (Chart, error) {
	a, err := NewAggregator(tf)
	if err != nil {
		return Chart{}, err
	}
	c := a.Chart()
	for _, q := range quotes {
		if c, err = a.Add(q); err != nil {
			return Chart{}, err
		}
	}
	return c, nil
}

func (c Chart) TimeFrame() time.Duration { return c.tf }

// Len counts closed candles plus the open one, if any.
func (c Chart) Len() int {
	if c.open {
		return len(c.closed) + 1
	}
	return len(c.closed)
}

// At returns the i-th candle, oldest first.
func (c Chart) At(i int) Candle {
	if i == len(c.closed) && c.open {
		return c.current
	}
	return c.closed[i]
}

// Last returns the most recent candle.
func (c Chart) Last() (Candle, bool) {
	if c.open {
		return c.current, true
	}
	if len(c.closed) == 0 {
		return Candle{}, false
	}
	return c.closed[len(c.closed)-1], true
}

// IsLastOpen reports whether the last candle is still accumulating.
func (c Chart) IsLastOpen() bool { return c.open }

// Candles returns a copy of all candles.
func (c Chart) Candles() []Candle {
	out := make([]Candle, 0, c.Len())
	out = append(out, c.closed...)
	if c.open {
		out = append(out, c.current)
	}
	return out
}

// Closed drops the still open trailing candle, for strategies that must not
// react to a partial bar. The view is read only; do not Add to it.
func (c Chart) Closed() Chart {
	c.open = false
	c.current = Candle{}
	return c
}

// LastQuoteTime is the time of the newest quote folded into the chart.
func (c Chart) LastQuoteTime() time.Time { return c.last }

// Add folds q into a copy of the chart. c itself is left untouched.
func (c Chart) Add(q Quote) (Chart, error) {
	next, rolled, err := c.fold(q)
	if err != nil {
		return Chart{}, err
	}
	if rolled {
		closed := make([]Candle, len(c.closed), len(c.closed)+1)
		copy(closed, c.closed)
		closed = append(closed, c.current)
		next.closed = closed[:len(closed):len(closed)]
	}
	return next, nil
}

// fold computes the next open candle. rolled reports that c.current has to
// be moved to the closed candles.
func (c Chart) fold(q Quote) (next Chart, rolled bool, err error) {
	if c.tf <= 0 {
		return Chart{}, false, fmt.Errorf("chart: time frame must be positive, got %s", c.tf)
	}
	if err := q.CheckAfter(c.last); err != nil {
		return Chart{}, false, fmt.Errorf("chart: %w", err)
	}

	start := BucketStart(q.Time, c.tf)
	next = c
	next.last = q.Time

	switch {
	case c.open && start.Equal(c.current.Time):
		next.current = c.current.add(q.Last)
	case c.open:
		rolled = true
		next.current = newCandle(start, q.Last)
	default:
		next.current = newCandle(start, q.Last)
		next.open = true
	}
	return next, rolled, nil
}

// Aggregator builds charts incrementally for a single quote stream. Charts it
// returns share the closed candles, which are append only, so each Add costs
// amortized O(1) and earlier snapshots stay valid.
type Aggregator struct {
	chart  Chart
	closed []Candle
}

func NewAggregator(tf time.Duration) (*Aggregator, error) {
	c, err := NewChart(tf)
	if err != nil {
		return nil, err
	}
	return &Aggregator{chart: c}, nil
}

// Chart returns the current snapshot.
func (a *Aggregator) Chart() Chart { return a.chart }

// Add folds q and returns the new snapshot. One snapshot is produced per
// quote, not per completed candle.
func (a *Aggregator) Add(q Quote) (Chart, error) {
	next, rolled, err := a.chart.fold(q)
	if err != nil {
		return Chart{}, err
	}
	if rolled {
		a.closed = append(a.closed, a.chart.current)
	}
	next.closed = a.closed[:len(a.closed):len(a.closed)]
	a.chart = next
	return next, nil
}
