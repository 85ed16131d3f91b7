package strategies

import (
	"github.com/rustyeddy/signals/market"
	"github.com/rustyeddy/signals/signal"
)

// FixedOffset waits below the market: whenever the signal is flat with no
// setup it places a long entry OffsetTicks under min(last, buy), and with
// Short set the mirrored short entry above max(last, sell).
func FixedOffset(p Params) signal.Strategy {
	return func(s signal.Signal, _ any) signal.Signal {
		if !s.IsFlat() || s.LongSetup.Enabled || s.ShortSetup.Enabled {
			return s
		}
		if ts := longBelow(s.Symbol, s.Quote, p); s.IsAllowed(ts) {
			s = s.SetLongTradeSetup(ts)
		}
		if p.Short {
			if ts := shortAbove(s.Symbol, s.Quote, p); s.IsAllowed(ts) {
				s = s.SetShortTradeSetup(ts)
			}
		}
		return s
	}
}

func longBelow(sym market.Symbol, q market.Quote, p Params) signal.TradeSetup {
	tick := sym.TickSize
	entry := sym.RoundPrice(min(q.Last, q.Buy) - float64(p.OffsetTicks)*tick)
	return signal.LongSetup(sym, entry, p.size(sym),
		entry+float64(p.ProfitTicks)*tick,
		entry-float64(p.LossTicks)*tick,
		p.Leverage)
}

func shortAbove(sym market.Symbol, q market.Quote, p Params) signal.TradeSetup {
	tick := sym.TickSize
	entry := sym.RoundPrice(max(q.Last, q.Sell) + float64(p.OffsetTicks)*tick)
	return signal.ShortSetup(sym, entry, p.size(sym),
		entry-float64(p.ProfitTicks)*tick,
		entry+float64(p.LossTicks)*tick,
		p.Leverage)
}
