package market

import "strings"

// instruments are symbols that need no explicit tick or lot size in
// configuration. Prices are quoted to a tenth of a pip.
var instruments = map[string]Symbol{
	"EUR_USD": MustSymbol("EUR_USD", 1, 0.00001).WithAssets("EUR", "USD"),
	"GBP_USD": MustSymbol("GBP_USD", 1, 0.00001).WithAssets("GBP", "USD"),
	"USD_JPY": MustSymbol("USD_JPY", 1, 0.001).WithAssets("USD", "JPY"),
	"BTC_USD": MustSymbol("BTC_USD", 0.0001, 0.01).WithAssets("BTC", "USD"),
}

// LookupInstrument returns the preset for name, matched case-insensitively
// with "/" or "_" as separator.
func LookupInstrument(name string) (Symbol, bool) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "/", "_"))
	s, ok := instruments[key]
	return s, ok
}
