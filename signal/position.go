package signal

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/signals/internal/id"
	"github.com/rustyeddy/signals/market"
)

// ExitReason says which target closed a position.
type ExitReason string

const (
	ExitProfitTarget ExitReason = "profit_target"
	ExitLossLimit    ExitReason = "loss_limit"
)

// Position is the single open position of a Signal. The zero value is flat.
type Position struct {
	Open      bool
	ID        string
	Direction Direction
	Size      float64
	Leverage  float64

	EntryPrice   float64
	EntryTime    time.Time
	ProfitTarget float64
	LossLimit    float64

	Margin       float64 // own funds committed at entry
	Borrowed     float64 // quote value financed by leverage
	OpeningValue float64 // entry price * size

	// Recomputed on every quote.
	MarkPrice    float64
	ClosingCosts float64 // fees for both legs plus accrued interest
	Profit       float64 // unrealized, net of ClosingCosts
	Value        float64 // Margin + Profit; what closing now would release
}

// ClosedTrade is the realized result of a position.
type ClosedTrade struct {
	ID        string
	Direction Direction
	Size      float64
	Leverage  float64

	EntryPrice float64
	EntryTime  time.Time
	ExitPrice  float64
	ExitTime   time.Time
	Reason     ExitReason

	Margin      float64
	GrossProfit float64
	Fees        float64
	Interest    float64
	NetProfit   float64
}

// IsZero reports whether t is the empty trade carried by Signals that did not
// close anything.
func (t ClosedTrade) IsZero() bool { return t.ID == "" }

// Won reports whether the trade ended with a positive net profit.
func (t ClosedTrade) Won() bool { return t.NetProfit > 0 }

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// openPosition fills ts at its entry price. The margin is deposited and
// committed in one go so quote cash is unchanged; the borrowed part is booked
// as debt, in quote for longs and in base units for shorts.
func openPosition(sym market.Symbol, acct Account, ts TradeSetup, at time.Time) (Position, Account) {
	notional := dec(ts.EntryPrice).Mul(dec(ts.Size))
	margin := sym.RoundCash(notional.Div(dec(ts.Leverage)).InexactFloat64())
	borrowed := notional.Sub(dec(margin)).InexactFloat64()

	pos := Position{
		Open:         true,
		ID:           id.FromTime(at),
		Direction:    ts.Direction,
		Size:         ts.Size,
		Leverage:     ts.Leverage,
		EntryPrice:   ts.EntryPrice,
		EntryTime:    at,
		ProfitTarget: ts.ProfitTarget,
		LossLimit:    ts.LossLimit,
		Margin:       margin,
		Borrowed:     borrowed,
		OpeningValue: notional.InexactFloat64(),
	}

	acct.Quote.Deposits += margin
	switch ts.Direction {
	case Long:
		acct.Quote.Debt += borrowed
	case Short:
		acct.Base.Debt += pos.baseBorrowed()
	}
	return pos, acct
}

// baseBorrowed is the part of a short's size financed by leverage.
func (p Position) baseBorrowed() float64 {
	s := dec(p.Size)
	return s.Sub(s.Div(dec(p.Leverage))).InexactFloat64()
}

// markPrice is the side of the quote the position would close against.
func (p Position) markPrice(q market.Quote) float64 {
	if p.Direction == Short {
		return q.Buy
	}
	return q.Sell
}

func (p Position) grossProfit(price float64) decimal.Decimal {
	move := dec(price).Sub(dec(p.EntryPrice))
	if p.Direction == Short {
		move = move.Neg()
	}
	return move.Mul(dec(p.Size))
}

// fees charges FeeRate on both legs.
func (p Position) fees(sym market.Symbol, exit float64) float64 {
	traded := dec(p.OpeningValue).Add(dec(exit).Mul(dec(p.Size)))
	return sym.RoundCash(traded.Mul(dec(sym.FeeRate)).InexactFloat64())
}

// interest accrues on the borrowed amount for every completed interval.
func (p Position) interest(sym market.Symbol, at time.Time) float64 {
	if sym.InterestRate == 0 || sym.InterestInterval <= 0 || p.Borrowed == 0 {
		return 0
	}
	n := int64(at.Sub(p.EntryTime) / sym.InterestInterval)
	if n <= 0 {
		return 0
	}
	v := dec(p.Borrowed).Mul(dec(sym.InterestRate)).Mul(decimal.NewFromInt(n))
	return sym.RoundCash(v.InexactFloat64())
}

// mark revalues an open position against q.
func (p Position) mark(sym market.Symbol, q market.Quote) Position {
	price := p.markPrice(q)
	costs := dec(p.fees(sym, price)).Add(dec(p.interest(sym, q.Time)))
	profit := p.grossProfit(price).Sub(costs)

	p.MarkPrice = price
	p.ClosingCosts = costs.InexactFloat64()
	p.Profit = profit.InexactFloat64()
	p.Value = dec(p.Margin).Add(profit).InexactFloat64()
	return p
}

// closePosition settles p at price. Margin plus net profit goes back to quote
// cash after rounding to the symbol's cash decimals; the residue is kept in
// RoundingErrors so the books still add up.
func closePosition(sym market.Symbol, acct Account, p Position, price float64, at time.Time, reason ExitReason) (ClosedTrade, Account) {
	gross := p.grossProfit(price)
	fees := p.fees(sym, price)
	interest := p.interest(sym, at)

	net := gross.Sub(dec(fees)).Sub(dec(interest))
	raw := dec(p.Margin).Add(net)
	posted := sym.RoundCash(raw.InexactFloat64())

	q := acct.Quote
	q.Cash += posted
	q.RoundingErrors += dec(posted).Sub(raw).InexactFloat64()
	q.RealizedProfit += gross.InexactFloat64()
	q.PaidFees += fees
	q.PaidInterest += interest
	switch p.Direction {
	case Long:
		q.Debt -= p.Borrowed
	case Short:
		acct.Base.Debt -= p.baseBorrowed()
	}
	acct.Quote = q

	trade := ClosedTrade{
		ID:          p.ID,
		Direction:   p.Direction,
		Size:        p.Size,
		Leverage:    p.Leverage,
		EntryPrice:  p.EntryPrice,
		EntryTime:   p.EntryTime,
		ExitPrice:   price,
		ExitTime:    at,
		Reason:      reason,
		Margin:      p.Margin,
		GrossProfit: gross.InexactFloat64(),
		Fees:        fees,
		Interest:    interest,
		NetProfit:   dec(posted).Sub(dec(p.Margin)).InexactFloat64(),
	}
	return trade, acct
}

// exitHit checks the targets of an open position. The loss limit wins when
// both are reached on the same tick.
func (p Position) exitHit(q market.Quote, low, high float64) (float64, ExitReason, bool) {
	mark := p.markPrice(q)
	switch p.Direction {
	case Long:
		if min(mark, low) <= p.LossLimit {
			return p.LossLimit, ExitLossLimit, true
		}
		if max(mark, high) >= p.ProfitTarget {
			return p.ProfitTarget, ExitProfitTarget, true
		}
	case Short:
		if max(mark, high) >= p.LossLimit {
			return p.LossLimit, ExitLossLimit, true
		}
		if min(mark, low) <= p.ProfitTarget {
			return p.ProfitTarget, ExitProfitTarget, true
		}
	}
	return 0, "", false
}

// entryHit reports whether an enabled setup fills on this tick. Longs fill
// when the buy side reaches the entry, shorts when the sell side does.
func (ts TradeSetup) entryHit(q market.Quote, low, high float64) bool {
	if !ts.Enabled {
		return false
	}
	switch ts.Direction {
	case Long:
		return min(q.Buy, low) <= ts.EntryPrice
	case Short:
		return max(q.Sell, high) >= ts.EntryPrice
	}
	return false
}

// auxRange is the price range of aux data such as the candle a quote was
// derived from. Without one the range is empty and only the quote counts.
func auxRange(aux any) (low, high float64) {
	low, high = math.Inf(1), math.Inf(-1)
	if r, ok := aux.(market.PriceRange); ok {
		l, h := r.PriceRange()
		if l > 0 {
			low = l
		}
		if h > 0 {
			high = h
		}
	}
	return low, high
}
