package signal

import (
	"github.com/rustyeddy/signals/market"
)

// Step derives the next Signal from prev and a quote without running any
// strategy. prev may be nil for the first quote of a stream. aux is passed
// through from the feed; if it implements market.PriceRange (a Candle does)
// its range is used for the trigger checks as well.
//
// On each quote an open position is checked against its targets first. A
// flat signal is then checked against its enabled setups, so a position never
// opens and closes on the same quote. The position is revalued and the
// performance figures are updated last.
func Step(prev *Signal, q market.Quote, aux any, sym market.Symbol) (Signal, error) {
	if err := sym.Validate(); err != nil {
		return Signal{}, err
	}
	if err := q.Validate(); err != nil {
		return Signal{}, err
	}

	s := New(sym)
	if prev != nil {
		if err := q.CheckAfter(prev.Time); err != nil {
			return Signal{}, err
		}
		s = *prev
		s.Symbol = sym
	}
	s.Time = q.Time
	s.Quote = q
	s.Trade = ClosedTrade{}
	s.Rejection = nil

	low, high := auxRange(aux)
	var lastPrice float64
	if prev != nil {
		lastPrice = prev.Quote.Last
	}

	if s.Position.Open {
		if price, reason, ok := s.Position.exitHit(q, low, high); ok {
			s.Trade, s.Account = closePosition(sym, s.Account, s.Position, price, q.Time, reason)
			s.Position = Position{}
			s.LongSetup = TradeSetup{}
			s.ShortSetup = TradeSetup{}
		}
	} else if ts, ok := triggered(s.LongSetup, s.ShortSetup, q, low, high, lastPrice); ok {
		s.Position, s.Account = openPosition(sym, s.Account, ts, q.Time)
		if ts.Direction == Long {
			s.ShortSetup = TradeSetup{}
		} else {
			s.LongSetup = TradeSetup{}
		}
	}

	if s.Position.Open {
		s.Position = s.Position.mark(sym, q)
	}
	s.Performance = nextPerformance(s.Performance, s.Account, s.Position, s.Trade)
	return s, nil
}

// triggered picks the setup that fills on this quote. When a wide aux range
// fills both, the entry nearer to the previous last price is taken as the
// one reached first.
func triggered(long, short TradeSetup, q market.Quote, low, high, lastPrice float64) (TradeSetup, bool) {
	l := long.entryHit(q, low, high)
	sh := short.entryHit(q, low, high)
	switch {
	case l && sh:
		if lastPrice-long.EntryPrice <= short.EntryPrice-lastPrice {
			return long, true
		}
		return short, true
	case l:
		return long, true
	case sh:
		return short, true
	}
	return TradeSetup{}, false
}
