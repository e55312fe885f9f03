// Package lineitem holds the ordered, never-empty list of invoice line items.
// Every operation returns a new List; a List is never modified in place.
package lineitem

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/invoicer-dev/invoicer/internal/model"
)

// Field names one editable column of a line item.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
	FieldQuantity    Field = "quantity"
)

// Defaults for a freshly added row.
const (
	DefaultPrice    = "1.00"
	DefaultQuantity = "1"
)

var (
	// ErrLastItem is wrapped by GuardRailError when removal would empty the list.
	ErrLastItem = errors.New("an invoice must have at least one item")
	// ErrUnknownField is returned for a field name that is not a line item column.
	ErrUnknownField = errors.New("unknown item field")
)

// GuardRailError reports a rejected removal. The list is left unchanged.
type GuardRailError struct {
	ItemID string
	Err    error
}

func (e *GuardRailError) Error() string {
	return fmt.Sprintf("cannot remove item %s: %v", e.ItemID, e.Err)
}

func (e *GuardRailError) Unwrap() error {
	return e.Err
}

// ParseField validates a field name coming from a UI.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldName, FieldDescription, FieldPrice, FieldQuantity:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}

// New returns a blank row with the default price and quantity.
func New(id string) model.LineItem {
	return model.LineItem{
		ID:       id,
		Price:    DefaultPrice,
		Quantity: DefaultQuantity,
	}
}

// List is an ordered collection of line items in insertion order.
type List []model.LineItem

// Clone returns a copy backed by a new array.
func (l List) Clone() List {
	return List(model.CloneItems(l))
}

// Find returns the item with the given ID.
func (l List) Find(id string) (model.LineItem, bool) {
	return lo.Find(l, func(item model.LineItem) bool { return item.ID == id })
}

// Add appends a blank row with the given ID.
func (l List) Add(id string) List {
	out := make(List, 0, len(l)+1)
	out = append(out, l...)
	return append(out, New(id))
}

// Remove drops the item with the given ID. Removing from a single-item list is
// rejected whatever the ID; an unknown ID otherwise leaves the list as is.
func (l List) Remove(id string) (List, error) {
	if len(l) <= 1 {
		return l.Clone(), &GuardRailError{ItemID: id, Err: ErrLastItem}
	}
	return lo.Filter(l, func(item model.LineItem, _ int) bool { return item.ID != id }), nil
}

// Update replaces a single field of the item with the given ID. Other items and
// fields are untouched; an unknown ID is a no-op.
func (l List) Update(id string, field Field, value string) (List, error) {
	if _, err := ParseField(string(field)); err != nil {
		return l.Clone(), err
	}
	return lo.Map(l, func(item model.LineItem, _ int) model.LineItem {
		if item.ID != id {
			return item
		}
		return Set(item, field, value)
	}), nil
}

// Set returns item with one field replaced. An unknown field returns item
// unchanged.
func Set(item model.LineItem, field Field, value string) model.LineItem {
	switch field {
	case FieldName:
		item.Name = value
	case FieldDescription:
		item.Description = value
	case FieldPrice:
		item.Price = value
	case FieldQuantity:
		item.Quantity = value
	}
	return item
}
