// Package signal is the trading signal engine: an immutable Signal snapshot
// and the step that derives the next snapshot from a quote.
package signal

import (
	"fmt"
	"time"

	"github.com/rustyeddy/signals/market"
)

// Signal is the complete state of one symbol after a quote. Signals are
// values; every method returns a modified copy.
//
// Signal must stay comparable with ==, the engine relies on it to detect
// strategies that change more than the trade setups.
type Signal struct {
	Symbol market.Symbol
	Time   time.Time
	Quote  market.Quote

	LongSetup  TradeSetup
	ShortSetup TradeSetup

	Position    Position
	Trade       ClosedTrade // trade closed by this step, zero otherwise
	Account     Account
	Performance Performance

	// Rejection is set when a lenient engine discarded the strategy's setup
	// changes for this step. errors.As finds the *RejectionError in it.
	Rejection error
}

// New returns the symbol-only state that precedes the first quote.
func New(sym market.Symbol) Signal {
	return Signal{Symbol: sym}
}

func (s Signal) IsFlat() bool { return !s.Position.Open }

// SetLongTradeSetup returns s with ts as its long setup. The engine
// validates the change when the strategy returns.
func (s Signal) SetLongTradeSetup(ts TradeSetup) Signal {
	s.LongSetup = ts
	return s
}

func (s Signal) SetShortTradeSetup(ts TradeSetup) Signal {
	s.ShortSetup = ts
	return s
}

func (s Signal) DisableLongTradeSetup() Signal {
	s.LongSetup = TradeSetup{}
	return s
}

func (s Signal) DisableShortTradeSetup() Signal {
	s.ShortSetup = TradeSetup{}
	return s
}

// CheckTradeSetup reports why ts could not be placed on s right now. Setups
// cannot change while a position is open; a disabled setup is otherwise
// always acceptable.
func (s Signal) CheckTradeSetup(ts TradeSetup) error {
	if s.Position.Open {
		return fmt.Errorf("%w: %s position %s is open", ErrIllegalMutationAttempt, s.Position.Direction, s.Position.ID)
	}
	return ts.Check(s.Symbol, s.Quote)
}

// IsAllowed is CheckTradeSetup as a predicate.
func (s Signal) IsAllowed(ts TradeSetup) bool {
	return s.CheckTradeSetup(ts) == nil
}

// withoutSetups is s minus the parts a strategy is allowed to change.
func (s Signal) withoutSetups() Signal {
	s.LongSetup = TradeSetup{}
	s.ShortSetup = TradeSetup{}
	return s
}
