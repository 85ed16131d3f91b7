package strategies

import (
	"math"

	"github.com/rustyeddy/signals/market"
)

func (p Params) size(sym market.Symbol) float64 {
	if p.MaxLoss <= 0 {
		return p.Size
	}
	return SizeForLoss(sym, p.MaxLoss, float64(p.LossTicks)*sym.TickSize)
}

// SizeForLoss returns the largest multiple of the lot size whose loss over
// stopDistance stays within maxLoss. Zero means not even one lot fits.
func SizeForLoss(sym market.Symbol, maxLoss, stopDistance float64) float64 {
	if maxLoss <= 0 || stopDistance <= 0 || sym.LotSize <= 0 {
		return 0
	}
	lots := math.Floor(maxLoss/stopDistance/sym.LotSize + 1e-9)
	return sym.RoundSize(lots * sym.LotSize)
}
