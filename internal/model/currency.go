package model

// Currency pairs an ISO code with the symbol shown on the invoice.
type Currency struct {
	Code   string
	Symbol string
}

// DefaultCurrencySymbol is used when nothing else is configured.
const DefaultCurrencySymbol = "$"

// Currencies is the fixed set of symbols an invoice can display.
var Currencies = []Currency{
	{Code: "USD", Symbol: "$"},
	{Code: "EUR", Symbol: "€"},
	{Code: "GBP", Symbol: "£"},
	{Code: "JPY", Symbol: "¥"},
	{Code: "INR", Symbol: "₹"},
}

// CurrencyBySymbol looks up a currency by its display symbol.
func CurrencyBySymbol(symbol string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return Currency{}, false
}

// CurrencyByCode looks up a currency by ISO code, e.g. "EUR".
func CurrencyByCode(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// ResolveCurrency accepts either a code or a symbol.
func ResolveCurrency(s string) (Currency, bool) {
	if c, ok := CurrencyByCode(s); ok {
		return c, true
	}
	return CurrencyBySymbol(s)
}
