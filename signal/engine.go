package signal

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/signals/market"
)

// Strategy looks at a freshly stepped Signal and returns it with new trade
// setups. Anything else it changes is rejected by the Engine.
type Strategy func(s Signal, aux any) Signal

// Noop is the Strategy that never trades.
func Noop(s Signal, _ any) Signal { return s }

// Engine runs Step followed by a Strategy for one symbol.
type Engine struct {
	symbol   market.Symbol
	strategy Strategy
	strict   bool
}

type Option func(*Engine)

// WithStrict makes Update fail with a *RejectionError instead of discarding
// a bad strategy mutation.
func WithStrict(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// NewEngine validates the symbol up front. A nil strategy means Noop.
func NewEngine(sym market.Symbol, strategy Strategy, opts ...Option) (*Engine, error) {
	if err := sym.Validate(); err != nil {
		return nil, err
	}
	if strategy == nil {
		strategy = Noop
	}
	e := &Engine{symbol: sym, strategy: strategy}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Symbol() market.Symbol { return e.symbol }
func (e *Engine) Strict() bool          { return e.strict }

// Update steps prev with q and lets the strategy adjust the trade setups.
//
// In lenient mode (the default) a rejected change is dropped, the previous
// setup on that side is kept, and the reason is left in Signal.Rejection.
// In strict mode Update returns the rejection and no Signal; prev stays the
// latest valid state. Use errors.As to get at the *RejectionError.
func (e *Engine) Update(prev *Signal, q market.Quote, aux any) (Signal, error) {
	base, err := Step(prev, q, aux, e.symbol)
	if err != nil {
		return Signal{}, err
	}

	out := e.strategy(base, aux)
	next, rej := review(base, out)
	if rej != nil && e.strict {
		return Signal{}, rej
	}
	next.Rejection = rej
	return next, nil
}

// review accepts the setup changes of out that are legal on base and returns
// the accepted signal along with an error for the rest.
func review(base, out Signal) (Signal, error) {
	if out.withoutSetups() != base.withoutSetups() {
		return base, &RejectionError{
			Field: FieldSignal,
			Err:   errors.Join(ErrIllegalMutationAttempt, errors.New("only trade setups may be changed")),
		}
	}

	next := base
	var errs []error
	if out.LongSetup != base.LongSetup {
		if err := checkSide(base, out.LongSetup, Long); err != nil {
			errs = append(errs, &RejectionError{Field: FieldLong, Setup: out.LongSetup, Err: err})
		} else {
			next.LongSetup = out.LongSetup
		}
	}
	if out.ShortSetup != base.ShortSetup {
		if err := checkSide(base, out.ShortSetup, Short); err != nil {
			errs = append(errs, &RejectionError{Field: FieldShort, Setup: out.ShortSetup, Err: err})
		} else {
			next.ShortSetup = out.ShortSetup
		}
	}

	switch len(errs) {
	case 0:
		return next, nil
	case 1:
		return next, errs[0]
	default:
		return next, errors.Join(errs...)
	}
}

func checkSide(base Signal, ts TradeSetup, side Direction) error {
	if ts.Enabled && ts.Direction != side {
		return fmt.Errorf("%w: %s setup placed in the %s slot", ErrInvalidTradeSetup, ts.Direction, side)
	}
	return base.CheckTradeSetup(ts)
}
