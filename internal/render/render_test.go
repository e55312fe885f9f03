package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer-dev/invoicer/internal/derive"
	"github.com/invoicer-dev/invoicer/internal/model"
)

func snapshot(items []model.LineItem, rates model.Rates, currency string) model.Snapshot {
	return model.Snapshot{
		Header: model.Header{
			InvoiceNumber:   "INV-10001",
			IssueDate:       "2025-01-15",
			DueDate:         "2025-02-14",
			BillTo:          "Acme Corp",
			BillToEmail:     "ap@acme.test",
			BillToAddress:   "1 Market St",
			BillFrom:        "Studio LLC",
			BillFromEmail:   "billing@studio.test",
			BillFromAddress: "9 Side St",
			Notes:           "Thank you for your business!",
			Currency:        currency,
		},
		Items:  items,
		Rates:  rates,
		Totals: derive.Totals(derive.Inputs{Items: items, Rates: rates}),
	}
}

func TestBuild_RowsAndSummary(t *testing.T) {
	items := []model.LineItem{
		{ID: "a", Name: "Design", Description: "Landing page", Price: "10", Quantity: "2"},
		{ID: "b", Name: "Hosting", Price: "0.333", Quantity: "3"},
	}
	p := Build(snapshot(items, model.Rates{TaxRate: "10", DiscountRate: "5", AmountPaid: "5"}, "€"))

	require.Len(t, p.Rows, 2)
	assert.Equal(t, Row{Name: "Design", Description: "Landing page", Quantity: "2", Price: "€10.00", Amount: "€20.00"}, p.Rows[0])
	assert.Equal(t, "€0.33", p.Rows[1].Price)
	assert.Equal(t, "€1.00", p.Rows[1].Amount, "0.999 rounds to 1.00")

	assert.Equal(t, []Line{
		{LabelSubTotal, "€21.00"},
		{LabelTax, "€2.10"},
		{LabelDiscount, "€1.05"},
		{LabelTotal, "€22.05"},
		{LabelAmountPaid, "€5.00"},
		{LabelBalanceDue, "€17.05"},
	}, p.Summary)
	assert.Equal(t, "€17.05", p.AmountDue)
	assert.Equal(t, model.PaymentPartial, p.Status)
	assert.Equal(t, Party{Name: "Acme Corp", Email: "ap@acme.test", Address: "1 Market St"}, p.BillTo)
}

func TestBuild_OmitsZeroTaxAndDiscount(t *testing.T) {
	items := []model.LineItem{{ID: "a", Name: "Design", Price: "10", Quantity: "1"}}
	p := Build(snapshot(items, model.Rates{TaxRate: "0", DiscountRate: "", AmountPaid: "0"}, "$"))

	labels := make([]string, 0, len(p.Summary))
	for _, l := range p.Summary {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{LabelSubTotal, LabelTotal, LabelAmountPaid, LabelBalanceDue}, labels)
}

func TestBuild_DefaultSymbol(t *testing.T) {
	items := []model.LineItem{{ID: "a", Name: "Design", Price: "garbage", Quantity: "1"}}
	p := Build(snapshot(items, model.Rates{}, ""))
	assert.Equal(t, "$", p.Currency)
	assert.Equal(t, "$0.00", p.Rows[0].Price)
}

func TestRow_ItemLabel(t *testing.T) {
	assert.Equal(t, "Design - Landing page", Row{Name: "Design", Description: "Landing page"}.ItemLabel())
	assert.Equal(t, "Design", Row{Name: "Design"}.ItemLabel())
}

func TestText(t *testing.T) {
	items := []model.LineItem{{ID: "a", Name: "Design", Price: "10", Quantity: "2"}}
	out := Text(Build(snapshot(items, model.Rates{TaxRate: "10", AmountPaid: "22"}, "£")))

	assert.Contains(t, out, "Invoice #: INV-10001")
	assert.Contains(t, out, "Amount Due: £0.00")
	assert.Contains(t, out, "Status:       PAID")
	assert.Contains(t, out, "ITEM")
	assert.Contains(t, out, "£20.00")
	assert.Contains(t, out, "TAX")
	assert.NotContains(t, out, "DISCOUNT")
	assert.Contains(t, out, "BALANCE DUE")
	assert.Contains(t, out, "Thank you for your business!")
}

func TestPreview_Amount(t *testing.T) {
	items := []model.LineItem{{ID: "a", Name: "Design", Price: "10", Quantity: "1"}}
	p := Build(snapshot(items, model.Rates{}, "$"))
	assert.Equal(t, "$10.00", p.Amount(LabelTotal))
	assert.Empty(t, p.Amount(LabelTax))
}
