package derive

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/invoicer-dev/invoicer/internal/model"
	"github.com/invoicer-dev/invoicer/internal/money"
)

func item(price, qty string) model.LineItem {
	return model.LineItem{ID: price + "x" + qty, Name: "item", Price: price, Quantity: qty}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Equal(t, want, money.Format(got), field)
}

func TestTotals_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		items      []model.LineItem
		rates      model.Rates
		subTotal   string
		taxAmount  string
		discount   string
		total      string
		balanceDue string
		status     model.PaymentStatus
	}{
		{
			name:       "tax only, unpaid",
			items:      []model.LineItem{item("10.00", "2")},
			rates:      model.Rates{TaxRate: "10", DiscountRate: "0", AmountPaid: "0"},
			subTotal:   "20.00",
			taxAmount:  "2.00",
			discount:   "0.00",
			total:      "22.00",
			balanceDue: "22.00",
			status:     model.PaymentUnpaid,
		},
		{
			name:       "paid in full",
			items:      []model.LineItem{item("10.00", "2")},
			rates:      model.Rates{TaxRate: "10", DiscountRate: "0", AmountPaid: "22.00"},
			subTotal:   "20.00",
			taxAmount:  "2.00",
			discount:   "0.00",
			total:      "22.00",
			balanceDue: "0.00",
			status:     model.PaymentPaid,
		},
		{
			name:       "partial payment",
			items:      []model.LineItem{item("10.00", "2")},
			rates:      model.Rates{TaxRate: "10", DiscountRate: "0", AmountPaid: "10.00"},
			subTotal:   "20.00",
			taxAmount:  "2.00",
			discount:   "0.00",
			total:      "22.00",
			balanceDue: "12.00",
			status:     model.PaymentPartial,
		},
		{
			name:       "half discount, no tax",
			items:      []model.LineItem{item("10.00", "2")},
			rates:      model.Rates{TaxRate: "0", DiscountRate: "50", AmountPaid: "0"},
			subTotal:   "20.00",
			taxAmount:  "0.00",
			discount:   "10.00",
			total:      "10.00",
			balanceDue: "10.00",
			status:     model.PaymentUnpaid,
		},
		{
			name:       "overpaid keeps negative balance",
			items:      []model.LineItem{item("10.00", "2")},
			rates:      model.Rates{AmountPaid: "25"},
			subTotal:   "20.00",
			taxAmount:  "0.00",
			discount:   "0.00",
			total:      "20.00",
			balanceDue: "-5.00",
			status:     model.PaymentPaid,
		},
		{
			name:       "discount above 100 percent goes negative",
			items:      []model.LineItem{item("10.00", "1")},
			rates:      model.Rates{DiscountRate: "150"},
			subTotal:   "10.00",
			taxAmount:  "0.00",
			discount:   "15.00",
			total:      "-5.00",
			balanceDue: "-5.00",
			status:     model.PaymentUnpaid,
		},
		{
			name:       "garbage input degrades to zero",
			items:      []model.LineItem{item("abc", "2"), item("5.00", "x"), item("", "")},
			rates:      model.Rates{TaxRate: "ten", DiscountRate: "", AmountPaid: "lots"},
			subTotal:   "0.00",
			taxAmount:  "0.00",
			discount:   "0.00",
			total:      "0.00",
			balanceDue: "0.00",
			status:     model.PaymentUnpaid,
		},
		{
			name:       "each figure rounded independently",
			items:      []model.LineItem{item("3.333", "3")},
			rates:      model.Rates{TaxRate: "7.5", DiscountRate: "12.5"},
			subTotal:   "10.00",
			taxAmount:  "0.75",
			discount:   "1.25",
			total:      "9.50",
			balanceDue: "9.50",
			status:     model.PaymentUnpaid,
		},
		{
			name:       "fractional quantity truncated",
			items:      []model.LineItem{item("4.00", "2.9")},
			subTotal:   "8.00",
			taxAmount:  "0.00",
			discount:   "0.00",
			total:      "8.00",
			balanceDue: "8.00",
			status:     model.PaymentUnpaid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Totals(Inputs{Items: tt.items, Rates: tt.rates})
			assertMoney(t, tt.subTotal, got.SubTotal, "subTotal")
			assertMoney(t, tt.taxAmount, got.TaxAmount, "taxAmount")
			assertMoney(t, tt.discount, got.DiscountAmount, "discountAmount")
			assertMoney(t, tt.total, got.Total, "total")
			assertMoney(t, tt.balanceDue, got.BalanceDue, "balanceDue")
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestTotals_TotalIdentity(t *testing.T) {
	items := []model.LineItem{item("19.99", "3"), item("0.01", "7"), item("1234.56", "1")}
	for _, tax := range []string{"0", "5", "8.25", "19", "100"} {
		for _, disc := range []string{"0", "3.5", "10", "33.33"} {
			got := Totals(Inputs{Items: items, Rates: model.Rates{TaxRate: tax, DiscountRate: disc}})
			want := money.Round(got.SubTotal.Sub(got.DiscountAmount).Add(got.TaxAmount))
			assert.True(t, want.Equal(got.Total), "tax=%s disc=%s: %s != %s", tax, disc, want, got.Total)
		}
	}
}

func TestTotals_OrderIndependent(t *testing.T) {
	a := []model.LineItem{item("19.99", "3"), item("0.015", "7"), item("5", "1")}
	b := []model.LineItem{a[2], a[0], a[1]}
	rates := model.Rates{TaxRate: "8"}

	assert.True(t, Totals(Inputs{Items: a, Rates: rates}).SubTotal.Equal(Totals(Inputs{Items: b, Rates: rates}).SubTotal))
}

func TestTotals_Idempotent(t *testing.T) {
	in := Inputs{
		Items: []model.LineItem{item("12.34", "5"), item("0.99", "10")},
		Rates: model.Rates{TaxRate: "8.875", DiscountRate: "5", AmountPaid: "10"},
	}
	first := Totals(in)
	second := Totals(in)
	assert.Equal(t, money.Format(first.Total), money.Format(second.Total))
	assert.True(t, first.SubTotal.Equal(second.SubTotal))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
	assert.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
	assert.True(t, first.BalanceDue.Equal(second.BalanceDue))
	assert.Equal(t, first.Status, second.Status)
}

func TestSubTotal_SumThenRound(t *testing.T) {
	// 0.005 * 3 = 0.015 summed at full precision rounds to 0.02.
	items := []model.LineItem{item("0.005", "1"), item("0.005", "1"), item("0.005", "1")}
	assertMoney(t, "0.02", SubTotal(items), "subTotal")
}

func TestStatus(t *testing.T) {
	tests := []struct {
		paid, total string
		want        model.PaymentStatus
	}{
		{"0", "22", model.PaymentUnpaid},
		{"-1", "22", model.PaymentUnpaid},
		{"10", "22", model.PaymentPartial},
		{"22", "22", model.PaymentPaid},
		{"30", "22", model.PaymentPaid},
		{"0", "0", model.PaymentUnpaid},
		{"1", "-5", model.PaymentPaid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(dec(tt.paid), dec(tt.total)), "Status(%s, %s)", tt.paid, tt.total)
	}
}

func TestLineAmount(t *testing.T) {
	assert.Equal(t, "7.5", LineAmount(item("2.50", "3")).String())
	assert.True(t, LineAmount(item("x", "3")).IsZero())
}

func TestRatesAbove100(t *testing.T) {
	assert.Empty(t, RatesAbove100(model.Rates{TaxRate: "100", DiscountRate: "abc"}))
	assert.Equal(t, []string{"discountRate"}, RatesAbove100(model.Rates{TaxRate: "10", DiscountRate: "150"}))
	assert.Equal(t, []string{"taxRate", "discountRate"}, RatesAbove100(model.Rates{TaxRate: "100.01", DiscountRate: "101"}))
}

func TestTotals_HugeExponentIsZero(t *testing.T) {
	huge := "1e2000000000"
	tests := []struct {
		name  string
		items []model.LineItem
		rates model.Rates
		total string
	}{
		{"price", []model.LineItem{item(huge, "1"), item("5.00", "1")}, model.Rates{}, "5.00"},
		{"quantity", []model.LineItem{item("5.00", huge)}, model.Rates{}, "0.00"},
		{"tax rate", []model.LineItem{item("5.00", "1")}, model.Rates{TaxRate: huge}, "5.00"},
		{"discount rate", []model.LineItem{item("5.00", "1")}, model.Rates{DiscountRate: huge}, "5.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Totals(Inputs{Items: tt.items, Rates: tt.rates})
			assertMoney(t, tt.total, got.Total, "total")
		})
	}

	got := Totals(Inputs{Items: []model.LineItem{item("5.00", "1")}, Rates: model.Rates{AmountPaid: huge}})
	assertMoney(t, "5.00", got.BalanceDue, "balanceDue")
	assert.Equal(t, model.PaymentUnpaid, got.Status)
}
