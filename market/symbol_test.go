package market

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSymbolRejectsBadIncrements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lot  float64
		tick float64
	}{
		{"zero tick", 1, 0},
		{"negative tick", 1, -0.01},
		{"zero lot", 0, 0.01},
		{"negative lot", -1, 0.01},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewSymbol("BTCUSD", tt.lot, tt.tick)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSymbolConfiguration))
		})
	}
}

func TestSymbolSettersReturnCopies(t *testing.T) {
	t.Parallel()

	base := MustSymbol("BTCUSD", 0.001, 0.5)
	withFees := base.WithFeeRate(0.001).WithInterestRate(0.0002).WithAssets("BTC", "USD")

	assert.Zero(t, base.FeeRate)
	assert.Zero(t, base.InterestRate)
	assert.Empty(t, base.BaseAsset)

	assert.Equal(t, 0.001, withFees.FeeRate)
	assert.Equal(t, 0.0002, withFees.InterestRate)
	assert.Equal(t, "BTC", withFees.BaseAsset)
	assert.Equal(t, "USD", withFees.QuoteCurrency)
	assert.Equal(t, "BTCUSD (BTC/USD)", withFees.String())
}

func TestSymbolValidateSetters(t *testing.T) {
	t.Parallel()

	s := MustSymbol("X", 1, 1)
	assert.ErrorIs(t, s.WithFeeRate(-0.1).Validate(), ErrInvalidSymbolConfiguration)
	assert.ErrorIs(t, s.WithInterestRate(-1).Validate(), ErrInvalidSymbolConfiguration)
	assert.ErrorIs(t, s.WithInterestInterval(-time.Hour).Validate(), ErrInvalidSymbolConfiguration)
	assert.ErrorIs(t, s.WithCashDecimals(19).Validate(), ErrInvalidSymbolConfiguration)
	assert.NoError(t, s.WithInterestInterval(0).Validate())
}

func TestRoundPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tick float64
		in   float64
		want float64
	}{
		{1, 97.5, 98},
		{1, -97.5, -98},
		{1, 97.49, 97},
		{0.01, 1.234, 1.23},
		{0.01, 1.235, 1.24},
		{0.5, 100.26, 100.5},
		{0.5, 100.24, 100},
		{0.1, 0.30000000000000004, 0.3},
		{0.00001, 1.085015, 1.08502},
	}

	for _, tt := range tests {
		s := MustSymbol("X", 1, tt.tick)
		assert.Equal(t, tt.want, s.RoundPrice(tt.in), "tick=%v in=%v", tt.tick, tt.in)
	}
}

func TestRoundSize(t *testing.T) {
	t.Parallel()

	s := MustSymbol("X", 0.001, 0.01)
	assert.Equal(t, 1.235, s.RoundSize(1.2345))
	assert.Equal(t, 0.001, s.RoundSize(0.0005))
	assert.Equal(t, 0.0, s.RoundSize(0.0004))
}

func TestRoundingIsIdempotent(t *testing.T) {
	t.Parallel()

	steps := []float64{1, 0.5, 0.1, 0.01, 0.25, 0.00001, 3, 1e-8}
	values := []float64{0, 0.3, 1.005, 2.675, 97.5, 12345.6789, -42.4242, 1e-7, 99999.99999}

	for _, step := range steps {
		s := MustSymbol("X", step, step)
		for _, v := range values {
			p := s.RoundPrice(v)
			assert.Equal(t, p, s.RoundPrice(p), "price step=%v v=%v", step, v)
			z := s.RoundSize(v)
			assert.Equal(t, z, s.RoundSize(z), "size step=%v v=%v", step, v)
			assert.True(t, s.IsPriceAligned(p), "aligned step=%v v=%v", step, v)
		}
	}
}

func TestAlignment(t *testing.T) {
	t.Parallel()

	s := MustSymbol("X", 0.1, 0.05)
	assert.True(t, s.IsPriceAligned(1.05))
	assert.False(t, s.IsPriceAligned(1.07))
	assert.True(t, s.IsSizeAligned(0.3))
	assert.False(t, s.IsSizeAligned(0.35))
}

func TestRoundCash(t *testing.T) {
	t.Parallel()

	s := MustSymbol("X", 1, 1).WithCashDecimals(2)
	assert.Equal(t, 0.99, s.RoundCash(0.985))
	assert.Equal(t, -0.99, s.RoundCash(-0.985))
	assert.Equal(t, 12.34, s.RoundCash(12.3449))
}
