package model

import "github.com/shopspring/decimal"

// PaymentStatus is derived from the amount paid against the invoice total.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// LineItem is one billable row. Price and Quantity hold the text as typed;
// they are parsed only when totals are derived.
type LineItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Quantity    string `json:"quantity"`
}

// Header holds the invoice's free-form fields. Field order matters: missing
// required fields are reported in declaration order.
type Header struct {
	InvoiceNumber   string `json:"invoiceNumber" validate:"required"`
	IssueDate       string `json:"issueDate" validate:"required"` // YYYY-MM-DD
	DueDate         string `json:"dueDate" validate:"required"`   // YYYY-MM-DD
	BillTo          string `json:"billTo" validate:"required"`
	BillToEmail     string `json:"billToEmail" validate:"required"`
	BillToAddress   string `json:"billToAddress" validate:"required"`
	BillFrom        string `json:"billFrom" validate:"required"`
	BillFromEmail   string `json:"billFromEmail" validate:"required"`
	BillFromAddress string `json:"billFromAddress" validate:"required"`
	Notes           string `json:"notes"`
	Currency        string `json:"currency"` // display symbol, see Currencies
}

// Rates holds the percentage and payment inputs as typed.
type Rates struct {
	TaxRate      string `json:"taxRate"`
	DiscountRate string `json:"discountRate"`
	AmountPaid   string `json:"amountPaid"`
}

// Totals is always recomputed from items and rates, never edited directly.
type Totals struct {
	SubTotal       decimal.Decimal `json:"subTotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
	BalanceDue     decimal.Decimal `json:"balanceDue"` // negative when overpaid
	Status         PaymentStatus   `json:"paymentStatus"`
}

// Snapshot is the frozen invoice taken when review begins.
type Snapshot struct {
	Header Header
	Items  []LineItem
	Rates  Rates
	Totals Totals
}

// CloneItems returns a copy of items that shares no backing array.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
