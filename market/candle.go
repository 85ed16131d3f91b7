package market

import (
	"fmt"
	"time"
)

// Candle represents OHLC (Open, High, Low, Close) candlestick data for the
// bucket starting at Time.
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
	Ticks int // quotes aggregated into the candle
}

// newCandle opens a candle at price.
func newCandle(start time.Time, price float64) Candle {
	return Candle{Time: start, Open: price, High: price, Low: price, Close: price, Ticks: 1}
}

// add folds price into the candle.
func (c Candle) add(price float64) Candle {
	if price > c.High {
		c.High = price
	}
	if price < c.Low {
		c.Low = price
	}
	c.Close = price
	c.Ticks++
	return c
}

// PriceRange makes a Candle usable as aux data for bar replay: the engine
// treats every price between Low and High as touched.
func (c Candle) PriceRange() (low, high float64) {
	return c.Low, c.High
}

// Valid checks the OHLC ordering invariant.
func (c Candle) Valid() bool {
	return c.High >= c.Open && c.High >= c.Close && c.High >= c.Low &&
		c.Low <= c.Open && c.Low <= c.Close
}

func (c Candle) String() string {
	return fmt.Sprintf("%s O=%g H=%g L=%g C=%g",
		c.Time.Format(time.RFC3339), c.Open, c.High, c.Low, c.Close)
}
