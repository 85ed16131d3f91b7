// Package market holds the instrument, quote and candle types shared by the
// signal engine and its feeds.
package market

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidSymbolConfiguration is returned when a Symbol cannot be used for
// rounding or validation.
var ErrInvalidSymbolConfiguration = errors.New("invalid symbol configuration")

// DefaultCashDecimals is the number of decimals ledger amounts are rounded to
// unless WithCashDecimals says otherwise.
const DefaultCashDecimals int32 = 8

// Symbol describes a tradable instrument. It is a value type: the With*
// setters return modified copies.
type Symbol struct {
	Name          string
	BaseAsset     string
	QuoteCurrency string

	TickSize float64 // minimum price increment
	LotSize  float64 // minimum size increment

	FeeRate          float64       // fraction of traded notional, per leg
	InterestRate     float64       // fraction of borrowed notional, per InterestInterval
	InterestInterval time.Duration // 0 disables interest accrual

	CashDecimals int32
}

// NewSymbol builds a Symbol with no fees and no interest.
func NewSymbol(name string, lotSize, tickSize float64) (Symbol, error) {
	s := Symbol{
		Name:             name,
		TickSize:         tickSize,
		LotSize:          lotSize,
		InterestInterval: 24 * time.Hour,
		CashDecimals:     DefaultCashDecimals,
	}
	if err := s.Validate(); err != nil {
		return Symbol{}, err
	}
	return s, nil
}

// MustSymbol is NewSymbol for tests and static tables.
func MustSymbol(name string, lotSize, tickSize float64) Symbol {
	s, err := NewSymbol(name, lotSize, tickSize)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Symbol) WithFeeRate(rate float64) Symbol {
	s.FeeRate = rate
	return s
}

func (s Symbol) WithInterestRate(rate float64) Symbol {
	s.InterestRate = rate
	return s
}

func (s Symbol) WithInterestInterval(d time.Duration) Symbol {
	s.InterestInterval = d
	return s
}

// WithAssets sets the display names of the base asset and the quote currency.
func (s Symbol) WithAssets(base, quote string) Symbol {
	s.BaseAsset = base
	s.QuoteCurrency = quote
	return s
}

func (s Symbol) WithCashDecimals(n int32) Symbol {
	s.CashDecimals = n
	return s
}

// Validate reports the first field that makes the symbol unusable.
func (s Symbol) Validate() error {
	switch {
	case !(s.TickSize > 0):
		return fmt.Errorf("%w: tick size must be positive, got %v", ErrInvalidSymbolConfiguration, s.TickSize)
	case !(s.LotSize > 0):
		return fmt.Errorf("%w: lot size must be positive, got %v", ErrInvalidSymbolConfiguration, s.LotSize)
	case s.FeeRate < 0:
		return fmt.Errorf("%w: fee rate must not be negative, got %v", ErrInvalidSymbolConfiguration, s.FeeRate)
	case s.InterestRate < 0:
		return fmt.Errorf("%w: interest rate must not be negative, got %v", ErrInvalidSymbolConfiguration, s.InterestRate)
	case s.InterestInterval < 0:
		return fmt.Errorf("%w: interest interval must not be negative, got %s", ErrInvalidSymbolConfiguration, s.InterestInterval)
	case s.CashDecimals < 0 || s.CashDecimals > 18:
		return fmt.Errorf("%w: cash decimals must be within 0..18, got %d", ErrInvalidSymbolConfiguration, s.CashDecimals)
	}
	return nil
}

// RoundPrice rounds p to the nearest multiple of TickSize, halves away from zero.
func (s Symbol) RoundPrice(p float64) float64 {
	return roundTo(p, s.TickSize)
}

// RoundSize rounds size to the nearest multiple of LotSize, halves away from zero.
func (s Symbol) RoundSize(size float64) float64 {
	return roundTo(size, s.LotSize)
}

// RoundCash rounds a quote currency amount to CashDecimals.
func (s Symbol) RoundCash(v float64) float64 {
	return decimal.NewFromFloat(v).Round(s.CashDecimals).InexactFloat64()
}

// IsPriceAligned reports whether p is an exact multiple of TickSize.
func (s Symbol) IsPriceAligned(p float64) bool {
	return isMultiple(p, s.TickSize)
}

// IsSizeAligned reports whether size is an exact multiple of LotSize.
func (s Symbol) IsSizeAligned(size float64) bool {
	return isMultiple(size, s.LotSize)
}

func (s Symbol) String() string {
	if s.BaseAsset != "" && s.QuoteCurrency != "" {
		return fmt.Sprintf("%s (%s/%s)", s.Name, s.BaseAsset, s.QuoteCurrency)
	}
	return s.Name
}

// roundTo works in decimal so that tick sizes like 0.1 or 0.01 produce the
// float64 closest to the true multiple. decimal.Round(0) rounds halves away
// from zero.
func roundTo(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	d := decimal.NewFromFloat(v)
	st := decimal.NewFromFloat(step)
	return d.Div(st).Round(0).Mul(st).InexactFloat64()
}

func isMultiple(v, step float64) bool {
	if step <= 0 {
		return false
	}
	d := decimal.NewFromFloat(v)
	st := decimal.NewFromFloat(step)
	return d.Mod(st).IsZero()
}
