// Package money parses the free-form amounts typed into an invoice and applies
// the invoice rounding policy.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places every derived amount carries.
const Places = 2

var (
	// ErrEmpty is returned by Parse for blank input.
	ErrEmpty = errors.New("empty amount")
	// ErrOutOfRange is returned by Parse for amounts no invoice can hold.
	ErrOutOfRange = errors.New("amount out of range")
)

// Amounts are bounded so rounding and formatting stay cheap: at most 15
// integer digits and 20 fractional digits.
const (
	maxExponent = 15
	minExponent = -20
)

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.New(1, maxExponent)
)

// Parse reads user-typed amount text. Surrounding whitespace, currency symbols
// and thousands separators are ignored: "$1,234.50" parses as 1234.50.
// Magnitudes of 1e15 or more are rejected with ErrOutOfRange.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.Trim(s, " \t\n$€£¥₹")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, ErrEmpty
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	// Check the exponent before comparing: Cmp rescales both operands.
	if e := d.Exponent(); e > maxExponent || e < minExponent || d.Abs().Cmp(maxAmount) >= 0 {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, ErrOutOfRange)
	}
	return d, nil
}

// OrZero parses s, treating anything unparseable as zero.
func OrZero(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Quantity parses an item quantity. Quantities are whole units, so any
// fractional part is truncated ("2.7" -> 2). Unparseable text is zero.
func Quantity(s string) decimal.Decimal {
	return OrZero(s).Truncate(0)
}

// Positive parses s and reports whether it holds a number greater than zero.
func Positive(s string) (decimal.Decimal, bool) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, d.IsPositive()
}

// Round rounds half-up to two places. Negative halves round away from zero,
// so -0.005 becomes -0.01.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Percent returns round2(base * rate / 100).
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(rate).Div(hundred))
}

// Format renders d with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// WithSymbol renders d with two decimal places behind a currency symbol.
func WithSymbol(symbol string, d decimal.Decimal) string {
	return symbol + Format(d)
}
