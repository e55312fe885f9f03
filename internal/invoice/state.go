// Package invoice holds the form session: one state record that every edit
// replaces wholesale, with totals re-derived after each mutation.
package invoice

import (
	"errors"
	"fmt"

	"github.com/invoicer-dev/invoicer/internal/lineitem"
	"github.com/invoicer-dev/invoicer/internal/model"
)

// Mode is the session's position in the review state machine.
type Mode string

const (
	ModeEditing   Mode = "editing"
	ModeReviewing Mode = "reviewing"
)

// Field names a header or rate field that EditField accepts.
type Field string

const (
	FieldInvoiceNumber   Field = "invoiceNumber"
	FieldIssueDate       Field = "issueDate"
	FieldDueDate         Field = "dueDate"
	FieldBillTo          Field = "billTo"
	FieldBillToEmail     Field = "billToEmail"
	FieldBillToAddress   Field = "billToAddress"
	FieldBillFrom        Field = "billFrom"
	FieldBillFromEmail   Field = "billFromEmail"
	FieldBillFromAddress Field = "billFromAddress"
	FieldNotes           Field = "notes"
	FieldTaxRate         Field = "taxRate"
	FieldDiscountRate    Field = "discountRate"
	FieldAmountPaid      Field = "amountPaid"
)

// Fields lists every editable header and rate field in form order.
var Fields = []Field{
	FieldInvoiceNumber, FieldIssueDate, FieldDueDate,
	FieldBillTo, FieldBillToEmail, FieldBillToAddress,
	FieldBillFrom, FieldBillFromEmail, FieldBillFromAddress,
	FieldNotes, FieldTaxRate, FieldDiscountRate, FieldAmountPaid,
}

var (
	// ErrUnknownField is returned by EditField for a name not in Fields.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownCurrency is returned for a symbol or code outside model.Currencies.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrReviewLocked is returned for edits attempted while reviewing.
	ErrReviewLocked = errors.New("invoice is under review")
	// ErrNoItems is returned when replacing the item list with nothing.
	ErrNoItems = errors.New("no line items")
)

// State is the complete form state handed to a renderer.
type State struct {
	Header   model.Header
	Rates    model.Rates
	Items    lineitem.List
	Totals   model.Totals
	Mode     Mode
	Snapshot *model.Snapshot // set only in ModeReviewing

	// paidInFull records a MarkAsPaid that no later item or rate edit has
	// superseded. It keeps the status "paid" when the total is zero or negative.
	paidInFull bool
}

// Reviewing reports whether the state is frozen for review.
func (s State) Reviewing() bool {
	return s.Mode == ModeReviewing
}

// Value returns the current text of a header or rate field.
func (s State) Value(f Field) (string, error) {
	p, err := s.fieldPtr(f)
	if err != nil {
		return "", err
	}
	return *p, nil
}

func (s State) clone() State {
	s.Items = s.Items.Clone()
	if s.Snapshot != nil {
		snap := *s.Snapshot
		snap.Items = model.CloneItems(snap.Items)
		s.Snapshot = &snap
	}
	return s
}

func (s *State) fieldPtr(f Field) (*string, error) {
	switch f {
	case FieldInvoiceNumber:
		return &s.Header.InvoiceNumber, nil
	case FieldIssueDate:
		return &s.Header.IssueDate, nil
	case FieldDueDate:
		return &s.Header.DueDate, nil
	case FieldBillTo:
		return &s.Header.BillTo, nil
	case FieldBillToEmail:
		return &s.Header.BillToEmail, nil
	case FieldBillToAddress:
		return &s.Header.BillToAddress, nil
	case FieldBillFrom:
		return &s.Header.BillFrom, nil
	case FieldBillFromEmail:
		return &s.Header.BillFromEmail, nil
	case FieldBillFromAddress:
		return &s.Header.BillFromAddress, nil
	case FieldNotes:
		return &s.Header.Notes, nil
	case FieldTaxRate:
		return &s.Rates.TaxRate, nil
	case FieldDiscountRate:
		return &s.Rates.DiscountRate, nil
	case FieldAmountPaid:
		return &s.Rates.AmountPaid, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
}

func (s State) snapshot() model.Snapshot {
	return model.Snapshot{
		Header: s.Header,
		Items:  model.CloneItems(s.Items),
		Rates:  s.Rates,
		Totals: s.Totals,
	}
}

// Draft returns the current form as a snapshot without running the review
// gate, for previews of an unfinished invoice.
func (s State) Draft() model.Snapshot {
	return s.snapshot()
}
