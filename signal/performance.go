package signal

// Performance summarizes the account over the whole run.
type Performance struct {
	Investment   float64 // quote deposits so far
	Equity       float64 // quote cash plus the value of the open position
	Profit       float64 // Equity - Investment
	ROI          float64 // Profit / Investment, 0 without investment
	EquityPeak   float64
	MaxDrawdown  float64 // fraction of EquityPeak, in [0,1] while equity stays positive
	RoMaD        float64 // ROI / MaxDrawdown, 0 without drawdown
	TradesClosed int
	TradesWon    int
	WinRate      float64
}

// nextPerformance folds the state after a step into the running figures of
// prev. closed is the trade the step settled, if any.
func nextPerformance(prev Performance, acct Account, pos Position, closed ClosedTrade) Performance {
	p := Performance{
		TradesClosed: prev.TradesClosed,
		TradesWon:    prev.TradesWon,
		EquityPeak:   prev.EquityPeak,
		MaxDrawdown:  prev.MaxDrawdown,
	}
	if !closed.IsZero() {
		p.TradesClosed++
		if closed.Won() {
			p.TradesWon++
		}
	}

	p.Investment = acct.Quote.Deposits
	p.Equity = acct.Quote.Cash
	if pos.Open {
		p.Equity += pos.Value
	}
	p.Profit = p.Equity - p.Investment

	if p.Equity > p.EquityPeak {
		p.EquityPeak = p.Equity
	}
	if p.EquityPeak > 0 {
		if dd := (p.EquityPeak - p.Equity) / p.EquityPeak; dd > p.MaxDrawdown {
			p.MaxDrawdown = dd
		}
	}

	if p.Investment > 0 {
		p.ROI = p.Profit / p.Investment
	}
	if p.MaxDrawdown > 0 {
		p.RoMaD = p.ROI / p.MaxDrawdown
	}
	if p.TradesClosed > 0 {
		p.WinRate = float64(p.TradesWon) / float64(p.TradesClosed)
	}
	return p
}
