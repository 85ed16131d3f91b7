package signal

import (
	"fmt"

	"github.com/rustyeddy/signals/market"
)

// Direction of a setup or position: +1 long, -1 short.
type Direction int8

const (
	Long  Direction = +1
	Short Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "none"
	}
}

// TradeSetup is a pending entry order with its exit targets. The zero value
// is a disabled setup.
type TradeSetup struct {
	Enabled      bool
	Direction    Direction
	EntryPrice   float64
	Size         float64
	ProfitTarget float64
	LossLimit    float64
	Leverage     float64 // >= 1
}

// NewTradeSetup returns an enabled setup with prices rounded to the symbol's
// tick size and the size rounded to its lot size. A zero leverage means 1.
func NewTradeSetup(sym market.Symbol, dir Direction, entry, size, profitTarget, lossLimit, leverage float64) TradeSetup {
	if leverage == 0 {
		leverage = 1
	}
	return TradeSetup{
		Enabled:      true,
		Direction:    dir,
		EntryPrice:   sym.RoundPrice(entry),
		Size:         sym.RoundSize(size),
		ProfitTarget: sym.RoundPrice(profitTarget),
		LossLimit:    sym.RoundPrice(lossLimit),
		Leverage:     leverage,
	}
}

// LongSetup returns a long setup; see NewTradeSetup.
func LongSetup(sym market.Symbol, entry, size, profitTarget, lossLimit, leverage float64) TradeSetup {
	return NewTradeSetup(sym, Long, entry, size, profitTarget, lossLimit, leverage)
}

// ShortSetup returns a short setup; see NewTradeSetup.
func ShortSetup(sym market.Symbol, entry, size, profitTarget, lossLimit, leverage float64) TradeSetup {
	return NewTradeSetup(sym, Short, entry, size, profitTarget, lossLimit, leverage)
}

// CheckOrdering verifies the direction dependent price ordering:
// long profitTarget > entry > lossLimit, short lossLimit > entry > profitTarget.
// It does not look at the market.
func (ts TradeSetup) CheckOrdering() error {
	switch ts.Direction {
	case Long:
		if !(ts.ProfitTarget > ts.EntryPrice && ts.EntryPrice > ts.LossLimit) {
			return fmt.Errorf("%w: long needs profit target %v > entry %v > loss limit %v",
				ErrInvalidTradeSetup, ts.ProfitTarget, ts.EntryPrice, ts.LossLimit)
		}
	case Short:
		if !(ts.LossLimit > ts.EntryPrice && ts.EntryPrice > ts.ProfitTarget) {
			return fmt.Errorf("%w: short needs loss limit %v > entry %v > profit target %v",
				ErrInvalidTradeSetup, ts.LossLimit, ts.EntryPrice, ts.ProfitTarget)
		}
	default:
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidTradeSetup, ts.Direction)
	}
	return nil
}

// CheckMarket rejects setups that would fill on the quote they are placed
// against: a long entry must be below both last and buy, a short entry above
// both last and sell.
func (ts TradeSetup) CheckMarket(q market.Quote) error {
	switch ts.Direction {
	case Long:
		if !(ts.EntryPrice < q.Last && ts.EntryPrice < q.Buy) {
			return fmt.Errorf("%w: long entry %v must be below last %v and buy %v",
				ErrInvalidTradeSetup, ts.EntryPrice, q.Last, q.Buy)
		}
	case Short:
		if !(ts.EntryPrice > q.Last && ts.EntryPrice > q.Sell) {
			return fmt.Errorf("%w: short entry %v must be above last %v and sell %v",
				ErrInvalidTradeSetup, ts.EntryPrice, q.Last, q.Sell)
		}
	default:
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidTradeSetup, ts.Direction)
	}
	return nil
}

// CheckSymbol verifies size, leverage and tick/lot alignment.
func (ts TradeSetup) CheckSymbol(sym market.Symbol) error {
	switch {
	case !(ts.Size > 0):
		return fmt.Errorf("%w: size must be positive, got %v", ErrInvalidTradeSetup, ts.Size)
	case !sym.IsSizeAligned(ts.Size):
		return fmt.Errorf("%w: size %v is not a multiple of lot size %v", ErrInvalidTradeSetup, ts.Size, sym.LotSize)
	case !(ts.Leverage >= 1):
		return fmt.Errorf("%w: leverage must be at least 1, got %v", ErrInvalidTradeSetup, ts.Leverage)
	}
	for _, p := range []float64{ts.EntryPrice, ts.ProfitTarget, ts.LossLimit} {
		if !sym.IsPriceAligned(p) {
			return fmt.Errorf("%w: price %v is not a multiple of tick size %v", ErrInvalidTradeSetup, p, sym.TickSize)
		}
	}
	if ts.Direction == Long && !(ts.LossLimit > 0) {
		return fmt.Errorf("%w: long loss limit must be positive, got %v", ErrInvalidTradeSetup, ts.LossLimit)
	}
	if ts.Direction == Short && !(ts.ProfitTarget > 0) {
		return fmt.Errorf("%w: short profit target must be positive, got %v", ErrInvalidTradeSetup, ts.ProfitTarget)
	}
	return nil
}

// Check runs every check against the symbol and the quote the setup would be
// placed against.
func (ts TradeSetup) Check(sym market.Symbol, q market.Quote) error {
	if !ts.Enabled {
		return nil
	}
	if err := ts.CheckOrdering(); err != nil {
		return err
	}
	if err := ts.CheckSymbol(sym); err != nil {
		return err
	}
	return ts.CheckMarket(q)
}

// IsValid is Check as a predicate.
func (ts TradeSetup) IsValid(sym market.Symbol, q market.Quote) bool {
	return ts.Check(sym, q) == nil
}
