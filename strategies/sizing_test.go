package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/signals/market"
)

func TestSizeForLoss(t *testing.T) {
	t.Parallel()

	eur := market.MustSymbol("EUR_USD", 1, 0.00001)
	btc := market.MustSymbol("BTC_USD", 0.001, 0.01)

	tests := []struct {
		name    string
		sym     market.Symbol
		maxLoss float64
		stop    float64
		want    float64
	}{
		{"ten pips for 100", eur, 100, 0.001, 100000},
		{"rounded down to lots", btc, 100, 300, 0.333},
		{"less than a lot", btc, 0.1, 300, 0},
		{"no budget", eur, 0, 0.001, 0},
		{"no stop", eur, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SizeForLoss(tt.sym, tt.maxLoss, tt.stop), 1e-9)
		})
	}
}

func TestMaxLossSizesFixedOffset(t *testing.T) {
	t.Parallel()

	sym := market.MustSymbol("TEST", 1, 1)
	p := DefaultParams()
	p.Size = 0
	p.MaxLoss = 50
	p.LossTicks = 10
	require.NoError(t, p.Validate("fixed-offset"))

	s := FixedOffset(p)(stepped(t, sym, 100), nil)
	require.True(t, s.LongSetup.Enabled)
	assert.Equal(t, 5.0, s.LongSetup.Size)
	assert.Equal(t, s.LongSetup.EntryPrice-10, s.LongSetup.LossLimit)
}

func TestMaxLossValidation(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.MaxLoss = -1
	assert.Error(t, p.Validate("fixed-offset"))

	p.MaxLoss = 0
	p.Size = 0
	assert.Error(t, p.Validate("fixed-offset"))
}
