package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNonMonotonicTimestamp is returned when a quote is not strictly newer
// than the one processed before it.
var ErrNonMonotonicTimestamp = errors.New("non-monotonic timestamp")

// Quote is a timestamped price triple. Buy is the price paid to buy (ask),
// Sell the price received when selling (bid), Last the last traded price.
type Quote struct {
	Time time.Time
	Buy  float64
	Sell float64
	Last float64
}

// NewQuote returns a quote with the time normalized to UTC.
func NewQuote(t time.Time, buy, sell, last float64) Quote {
	return Quote{Time: t.UTC(), Buy: buy, Sell: sell, Last: last}
}

func (q Quote) Mid() float64 {
	if q.Buy == 0 && q.Sell == 0 {
		return 0
	}
	return (q.Buy + q.Sell) / 2
}

func (q Quote) Spread() float64 {
	return q.Buy - q.Sell
}

// Validate rejects quotes with no time or with negative, NaN or infinite
// prices.
func (q Quote) Validate() error {
	if q.Time.IsZero() {
		return errors.New("quote: missing time")
	}
	for _, p := range []float64{q.Buy, q.Sell, q.Last} {
		if !(p >= 0) || math.IsInf(p, 1) {
			return fmt.Errorf("quote %s: invalid price (buy=%v sell=%v last=%v)",
				q.Time.Format(time.RFC3339), q.Buy, q.Sell, q.Last)
		}
	}
	return nil
}

// CheckAfter returns ErrNonMonotonicTimestamp unless q is strictly after prev.
func (q Quote) CheckAfter(prev time.Time) error {
	if !prev.IsZero() && !q.Time.After(prev) {
		return fmt.Errorf("%w: %s is not after %s", ErrNonMonotonicTimestamp,
			q.Time.Format(time.RFC3339Nano), prev.Format(time.RFC3339Nano))
	}
	return nil
}

// PriceRange is implemented by aux data that summarizes the prices traded
// since the previous quote, such as a replayed Candle.
type PriceRange interface {
	PriceRange() (low, high float64)
}
