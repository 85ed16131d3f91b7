// Package indicators provides moving averages over closed candles.
package indicators

import "github.com/rustyeddy/signals/market"

// Indicator computes a single streaming value from candles.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	Reset()

	// Update consumes the next closed candle.
	Update(c market.Candle)

	Ready() bool

	// Value is 0 until Ready.
	Value() float64
}

// Feed pushes the closed candles of c that ind has not seen yet, given that
// it has already consumed seen of them. It returns the new count.
func Feed(ind Indicator, c market.Chart, seen int) int {
	closed := c.Closed()
	if seen > closed.Len() {
		ind.Reset()
		seen = 0
	}
	for i := seen; i < closed.Len(); i++ {
		ind.Update(closed.At(i))
	}
	return closed.Len()
}
