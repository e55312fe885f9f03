// Package review decides whether an invoice is complete enough to be frozen
// for review and export.
package review

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/invoicer-dev/invoicer/internal/model"
	"github.com/invoicer-dev/invoicer/internal/money"
)

var (
	// ErrMissingFields means one or more required header fields are empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidItems means at least one line item lacks a name, price or quantity.
	ErrInvalidItems = errors.New("every item needs a name, a price and a quantity")
)

// ValidationError carries what blocked the review. Missing lists header field
// names in form order; InvalidItems lists offending item IDs.
type ValidationError struct {
	Err          error
	Missing      []string
	InvalidItems []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s", e.Err, strings.Join(e.Missing, ", "))
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Gate checks an invoice before review.
type Gate struct {
	validate *validator.Validate
}

// NewGate creates a Gate. Field names in errors are the JSON names of
// model.Header ("billToEmail").
func NewGate() *Gate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Gate{validate: v}
}

// Check returns nil when the invoice may enter review, otherwise a
// *ValidationError. Header fields are checked first; items are checked only
// once the header is complete.
func (g *Gate) Check(h model.Header, items []model.LineItem) error {
	if missing := g.MissingFields(h); len(missing) > 0 {
		return &ValidationError{Err: ErrMissingFields, Missing: missing}
	}
	if bad := InvalidItems(items); len(bad) > 0 {
		return &ValidationError{Err: ErrInvalidItems, InvalidItems: bad}
	}
	return nil
}

// MissingFields returns the names of required header fields that are empty.
func (g *Gate) MissingFields(h model.Header) []string {
	err := g.validate.Struct(h)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	return lo.Map(verrs, func(fe validator.FieldError, _ int) string { return fe.Field() })
}

// InvalidItems returns the IDs of items with an empty name, or a price or
// quantity that is not a positive number.
func InvalidItems(items []model.LineItem) []string {
	bad := lo.Filter(items, func(item model.LineItem, _ int) bool {
		return !ItemValid(item)
	})
	return lo.Map(bad, func(item model.LineItem, _ int) string { return item.ID })
}

// ItemValid reports whether a single line item is ready for review.
func ItemValid(item model.LineItem) bool {
	if item.Name == "" {
		return false
	}
	if _, ok := money.Positive(item.Price); !ok {
		return false
	}
	return money.Quantity(item.Quantity).IsPositive()
}
