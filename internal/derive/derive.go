// Package derive computes invoice totals. Totals is a pure function: the same
// inputs always give the same result and nothing outside the return value is
// touched.
package derive

import (
	"github.com/shopspring/decimal"

	"github.com/invoicer-dev/invoicer/internal/model"
	"github.com/invoicer-dev/invoicer/internal/money"
)

// Inputs is everything the totals depend on.
type Inputs struct {
	Items []model.LineItem
	Rates model.Rates
}

// LineAmount returns price × quantity at full precision. Unparseable price or
// quantity counts as zero.
func LineAmount(item model.LineItem) decimal.Decimal {
	return money.OrZero(item.Price).Mul(money.Quantity(item.Quantity))
}

// SubTotal returns round2 of the sum of all line amounts.
func SubTotal(items []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineAmount(item))
	}
	return money.Round(sum)
}

// Status classifies a payment against the invoice total.
func Status(amountPaid, total decimal.Decimal) model.PaymentStatus {
	switch {
	case !amountPaid.IsPositive():
		return model.PaymentUnpaid
	case amountPaid.GreaterThanOrEqual(total):
		return model.PaymentPaid
	default:
		return model.PaymentPartial
	}
}

// Totals derives every computed figure. Each amount is rounded on its own
// before it feeds the next step, so tax and discount reconcile with the
// printed subtotal. Rates above 100% are accepted and can make the total
// negative; overpayment makes the balance negative.
func Totals(in Inputs) model.Totals {
	subTotal := SubTotal(in.Items)
	taxAmount := money.Percent(subTotal, money.OrZero(in.Rates.TaxRate))
	discountAmount := money.Percent(subTotal, money.OrZero(in.Rates.DiscountRate))
	total := money.Round(subTotal.Sub(discountAmount).Add(taxAmount))
	paid := money.OrZero(in.Rates.AmountPaid)

	return model.Totals{
		SubTotal:       subTotal,
		TaxAmount:      taxAmount,
		DiscountAmount: discountAmount,
		Total:          total,
		BalanceDue:     money.Round(total.Sub(paid)),
		Status:         Status(paid, total),
	}
}

// RatesAbove100 returns the names of rates over 100 percent. Such rates are
// accepted as entered; callers surface them as a warning.
func RatesAbove100(r model.Rates) []string {
	var out []string
	if money.OrZero(r.TaxRate).GreaterThan(hundredPercent) {
		out = append(out, "taxRate")
	}
	if money.OrZero(r.DiscountRate).GreaterThan(hundredPercent) {
		out = append(out, "discountRate")
	}
	return out
}

var hundredPercent = decimal.NewFromInt(100)
