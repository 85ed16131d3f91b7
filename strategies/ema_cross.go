package strategies

import (
	"github.com/rustyeddy/signals/indicators"
	"github.com/rustyeddy/signals/market"
	"github.com/rustyeddy/signals/signal"
)

// EMACross follows the fast/slow EMA regime of the closed candles of the
// Chart passed as aux data: fast above slow keeps a long setup just under
// the market, fast below slow a short one just above it. Quotes without a
// market.Chart (see backtest.ChartFeed) are ignored.
//
// The averages are recomputed from the chart on every call, so the returned
// strategy holds no state and may be shared between streams.
func EMACross(p Params) signal.Strategy {
	return func(s signal.Signal, aux any) signal.Signal {
		chart, ok := aux.(market.Chart)
		if !ok || !s.IsFlat() {
			return s
		}
		fast, slow := indicators.NewEMA(p.Fast), indicators.NewEMA(p.Slow)
		indicators.Feed(fast, chart, 0)
		indicators.Feed(slow, chart, 0)
		if !slow.Ready() {
			return s
		}

		q := p
		q.OffsetTicks = 1
		switch {
		case fast.Value() > slow.Value() && !s.LongSetup.Enabled:
			s = s.DisableShortTradeSetup()
			if ts := longBelow(s.Symbol, s.Quote, q); s.IsAllowed(ts) {
				s = s.SetLongTradeSetup(ts)
			}
		case fast.Value() < slow.Value() && !s.ShortSetup.Enabled:
			s = s.DisableLongTradeSetup()
			if ts := shortAbove(s.Symbol, s.Quote, q); s.IsAllowed(ts) {
				s = s.SetShortTradeSetup(ts)
			}
		}
		return s
	}
}
