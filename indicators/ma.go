package indicators

import (
	"fmt"

	"github.com/rustyeddy/signals/market"
)

// MA calculates the simple moving average of the last period closes.
func MA(candles []market.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(candles) < period {
		return 0, fmt.Errorf("not enough candles: need %d, got %d", period, len(candles))
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period), nil
}

// EMA calculates the exponential moving average over all candles, seeded
// with the SMA of the first period closes.
func EMA(candles []market.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(candles) < period {
		return 0, fmt.Errorf("not enough candles: need %d, got %d", period, len(candles))
	}

	multiplier := 2.0 / float64(period+1)

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += candles[i].Close
	}
	ema := sma / float64(period)

	for i := period; i < len(candles); i++ {
		ema = (candles[i].Close-ema)*multiplier + ema
	}
	return ema, nil
}
