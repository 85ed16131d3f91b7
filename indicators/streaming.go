package indicators

import (
	"fmt"

	"github.com/rustyeddy/signals/market"
)

// SimpleMA is a streaming simple moving average.
type SimpleMA struct {
	period int
	closes []float64
}

func NewMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		closes: make([]float64, 0, max(period, 0)),
	}
}

func (m *SimpleMA) Name() string { return fmt.Sprintf("MA(%d)", m.period) }
func (m *SimpleMA) Warmup() int  { return m.period }
func (m *SimpleMA) Reset()       { m.closes = m.closes[:0] }

func (m *SimpleMA) Update(c market.Candle) {
	if m.period <= 0 {
		return
	}
	if len(m.closes) == m.period {
		copy(m.closes, m.closes[1:])
		m.closes = m.closes[:m.period-1]
	}
	m.closes = append(m.closes, c.Close)
}

func (m *SimpleMA) Ready() bool {
	return m.period > 0 && len(m.closes) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	sum := 0.0
	for _, v := range m.closes {
		sum += v
	}
	return sum / float64(len(m.closes))
}

// ExponentialMA is a streaming exponential moving average. It gives the same
// result as EMA over the candles it was fed.
type ExponentialMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string { return fmt.Sprintf("EMA(%d)", e.period) }
func (e *ExponentialMA) Warmup() int  { return e.period }

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *ExponentialMA) Update(c market.Candle) {
	if e.count < e.period {
		e.warmupSum += c.Close
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
		return
	}
	e.ema = (c.Close-e.ema)*e.multiplier + e.ema
}

func (e *ExponentialMA) Ready() bool {
	return e.period > 0 && e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}
