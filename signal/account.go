package signal

// Ledger tracks one asset of the account. Amounts are in the asset's own
// units: base units for the base ledger, quote currency for the quote one.
type Ledger struct {
	Cash           float64
	Deposits       float64
	Debt           float64
	RealizedProfit float64
	PaidFees       float64
	PaidInterest   float64
	RoundingErrors float64
}

// Balance is what the ledger holds once the debt is paid back.
func (l Ledger) Balance() float64 { return l.Cash - l.Debt }

// Unexplained is the part of Cash the bookings do not account for. It is
// zero, up to float noise, whenever no position is open.
func (l Ledger) Unexplained() float64 {
	want := l.Deposits - l.Debt + l.RealizedProfit - l.PaidFees - l.PaidInterest + l.RoundingErrors
	return l.Cash - want
}

// Account pairs the base asset and quote currency ledgers of one symbol.
// Profit, fees and interest are all settled in the quote currency; the base
// ledger only carries what a short borrowed.
type Account struct {
	Base  Ledger
	Quote Ledger
}
