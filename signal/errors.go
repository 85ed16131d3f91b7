package signal

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/signals/market"
)

var (
	// ErrInvalidTradeSetup marks a setup that fails the ordering, alignment
	// or market checks.
	ErrInvalidTradeSetup = errors.New("invalid trade setup")

	// ErrIllegalMutationAttempt marks a strategy result that touched more
	// than the trade setups, or touched them while a position is open.
	ErrIllegalMutationAttempt = errors.New("illegal mutation attempt")

	ErrInvalidSymbolConfiguration = market.ErrInvalidSymbolConfiguration
	ErrNonMonotonicTimestamp      = market.ErrNonMonotonicTimestamp
)

// Field names used by RejectionError.
const (
	FieldLong   = "long"
	FieldShort  = "short"
	FieldSignal = "signal"
)

// RejectionError describes a strategy mutation the engine refused.
type RejectionError struct {
	Field string     // FieldLong, FieldShort or FieldSignal
	Setup TradeSetup // the setup that was refused, if any
	Err   error
}

func (e *RejectionError) Error() string {
	if e.Field == FieldSignal {
		return fmt.Sprintf("strategy result rejected: %v", e.Err)
	}
	return fmt.Sprintf("%s setup rejected: %v", e.Field, e.Err)
}

func (e *RejectionError) Unwrap() error { return e.Err }
