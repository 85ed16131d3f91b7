// Package strategies holds the built-in signal.Strategy implementations.
package strategies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/signals/signal"
)

// Params configures the built-in strategies. Distances are in ticks of the
// symbol the strategy runs on.
type Params struct {
	Size        float64
	Leverage    float64
	OffsetTicks int
	ProfitTicks int
	LossTicks   int
	Short       bool // fixed-offset: also place the mirrored short setup

	// MaxLoss, when positive, replaces Size: each setup is sized so that
	// its loss limit costs at most MaxLoss in the quote currency.
	MaxLoss float64

	Fast int // ema-cross periods
	Slow int
}

func DefaultParams() Params {
	return Params{
		Size:        1,
		Leverage:    1,
		OffsetTicks: 5,
		ProfitTicks: 20,
		LossTicks:   10,
		Fast:        10,
		Slow:        30,
	}
}

// Validate checks the fields the named strategy uses.
func (p Params) Validate(name string) error {
	switch Normalize(name) {
	case "noop":
		return nil
	case "ema-cross", "fixed-offset":
	default:
		return fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	switch {
	case p.MaxLoss < 0:
		return fmt.Errorf("max loss must not be negative, got %v", p.MaxLoss)
	case !(p.Size > 0) && p.MaxLoss == 0:
		return fmt.Errorf("size must be positive, got %v", p.Size)
	case p.Leverage < 1:
		return fmt.Errorf("leverage must be at least 1, got %v", p.Leverage)
	case p.OffsetTicks < 1:
		return fmt.Errorf("offset ticks must be at least 1, got %d", p.OffsetTicks)
	case p.ProfitTicks < 1 || p.LossTicks < 1:
		return fmt.Errorf("profit and loss ticks must be at least 1, got %d/%d", p.ProfitTicks, p.LossTicks)
	}
	if Normalize(name) == "ema-cross" && (p.Fast < 1 || p.Slow <= p.Fast) {
		return fmt.Errorf("ema-cross needs 0 < fast < slow, got %d/%d", p.Fast, p.Slow)
	}
	return nil
}

var registry = map[string]func(Params) signal.Strategy{
	"noop":         func(Params) signal.Strategy { return Noop },
	"fixed-offset": FixedOffset,
	"ema-cross":    EMACross,
}

// Names lists the registered strategies.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ByName builds the named strategy.
func ByName(name string, p Params) (signal.Strategy, error) {
	if err := p.Validate(name); err != nil {
		return nil, err
	}
	return registry[Normalize(name)](p), nil
}

// Normalize maps a strategy name or alias to its registered name.
func Normalize(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "none", "":
		return "noop"
	case "emacross":
		return "ema-cross"
	default:
		return n
	}
}
