// Package render turns a review snapshot into display-ready strings shared by
// the text preview and the export formats.
package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/invoicer-dev/invoicer/internal/derive"
	"github.com/invoicer-dev/invoicer/internal/model"
	"github.com/invoicer-dev/invoicer/internal/money"
)

// Summary line labels, in display order.
const (
	LabelSubTotal   = "SUBTOTAL"
	LabelTax        = "TAX"
	LabelDiscount   = "DISCOUNT"
	LabelTotal      = "TOTAL"
	LabelAmountPaid = "AMOUNT PAID"
	LabelBalanceDue = "BALANCE DUE"
)

// Party is one side of the invoice.
type Party struct {
	Name    string
	Email   string
	Address string
}

// Row is one formatted line item.
type Row struct {
	Name        string
	Description string
	Quantity    string
	Price       string
	Amount      string
}

// Line is one label/value pair in the totals block.
type Line struct {
	Label string
	Value string
}

// Preview is the rendered form of a snapshot. Every money string already
// carries the currency symbol.
type Preview struct {
	InvoiceNumber string
	IssueDate     string
	DueDate       string
	BillTo        Party
	BillFrom      Party
	Currency      string
	Status        model.PaymentStatus
	AmountDue     string
	Rows          []Row
	Summary       []Line
	Notes         string
}

// Build formats a snapshot. Tax and discount lines appear only when non-zero.
func Build(snap model.Snapshot) Preview {
	h := snap.Header
	symbol := h.Currency
	if symbol == "" {
		symbol = model.DefaultCurrencySymbol
	}
	amt := func(d decimal.Decimal) string { return money.WithSymbol(symbol, d) }

	rows := make([]Row, 0, len(snap.Items))
	for _, item := range snap.Items {
		rows = append(rows, Row{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    money.Quantity(item.Quantity).String(),
			Price:       amt(money.OrZero(item.Price)),
			Amount:      amt(money.Round(derive.LineAmount(item))),
		})
	}

	t := snap.Totals
	summary := []Line{{LabelSubTotal, amt(t.SubTotal)}}
	if !t.TaxAmount.IsZero() {
		summary = append(summary, Line{LabelTax, amt(t.TaxAmount)})
	}
	if !t.DiscountAmount.IsZero() {
		summary = append(summary, Line{LabelDiscount, amt(t.DiscountAmount)})
	}
	summary = append(summary,
		Line{LabelTotal, amt(t.Total)},
		Line{LabelAmountPaid, amt(money.OrZero(snap.Rates.AmountPaid))},
		Line{LabelBalanceDue, amt(t.BalanceDue)},
	)

	return Preview{
		InvoiceNumber: h.InvoiceNumber,
		IssueDate:     h.IssueDate,
		DueDate:       h.DueDate,
		BillTo:        Party{Name: h.BillTo, Email: h.BillToEmail, Address: h.BillToAddress},
		BillFrom:      Party{Name: h.BillFrom, Email: h.BillFromEmail, Address: h.BillFromAddress},
		Currency:      symbol,
		Status:        t.Status,
		AmountDue:     amt(t.BalanceDue),
		Rows:          rows,
		Summary:       summary,
		Notes:         h.Notes,
	}
}

// ItemLabel joins an item's name and description the way every format shows it.
func (r Row) ItemLabel() string {
	if r.Description == "" {
		return r.Name
	}
	return r.Name + " - " + r.Description
}

// Text lays a preview out as plain text.
func Text(p Preview) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", p.BillFrom.Name)
	fmt.Fprintf(&b, "Invoice #: %s\n", p.InvoiceNumber)
	fmt.Fprintf(&b, "Amount Due: %s\n\n", p.AmountDue)

	fmt.Fprintf(&b, "Billed to:    %s\n", p.BillTo.Name)
	writeIfSet(&b, "              %s\n", p.BillTo.Address)
	writeIfSet(&b, "              %s\n", p.BillTo.Email)
	fmt.Fprintf(&b, "Billed from:  %s\n", p.BillFrom.Name)
	writeIfSet(&b, "              %s\n", p.BillFrom.Address)
	writeIfSet(&b, "              %s\n", p.BillFrom.Email)
	fmt.Fprintf(&b, "Issue date:   %s\n", p.IssueDate)
	fmt.Fprintf(&b, "Due date:     %s\n", p.DueDate)
	fmt.Fprintf(&b, "Status:       %s\n\n", strings.ToUpper(string(p.Status)))

	itemWidth := len("ITEM")
	for _, r := range p.Rows {
		itemWidth = max(itemWidth, len([]rune(r.ItemLabel())))
	}
	fmt.Fprintf(&b, "%-*s  %5s  %12s  %12s\n", itemWidth, "ITEM", "QTY", "PRICE", "AMOUNT")
	for _, r := range p.Rows {
		fmt.Fprintf(&b, "%-*s  %5s  %12s  %12s\n", itemWidth, r.ItemLabel(), r.Quantity, r.Price, r.Amount)
	}
	b.WriteString("\n")

	labelWidth := itemWidth + 2 + 5 + 2 + 12
	for _, l := range p.Summary {
		fmt.Fprintf(&b, "%*s  %12s\n", labelWidth, l.Label, l.Value)
	}

	if p.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Notes)
	}
	return b.String()
}

func writeIfSet(b *strings.Builder, format, v string) {
	if v != "" {
		fmt.Fprintf(b, format, v)
	}
}

// Amount returns the summary value for label, or "" when that line is absent.
func (p Preview) Amount(label string) string {
	for _, l := range p.Summary {
		if l.Label == label {
			return l.Value
		}
	}
	return ""
}
