package invoice

import (
	"github.com/invoicer-dev/invoicer/internal/lineitem"
	"github.com/invoicer-dev/invoicer/internal/model"
)

// Hooks is the fixed set of callbacks a renderer is given. Each hook runs one
// complete edit; the renderer reads State afterwards to redraw.
type Hooks struct {
	EditField        func(f Field, value string) error
	EditItemField    func(itemID string, f lineitem.Field, value string) error
	AddItem          func() (model.LineItem, error)
	RemoveItem       func(itemID string) error
	RequestReview    func() (model.Snapshot, error)
	CloseReview      func()
	MarkAsPaid       func() error
	OnCurrencyChange func(symbol string) error
}

// Hooks binds the callback set to this session.
func (s *Session) Hooks() Hooks {
	return Hooks{
		EditField:        s.EditField,
		EditItemField:    s.EditItemField,
		AddItem:          s.AddItem,
		RemoveItem:       s.RemoveItem,
		RequestReview:    s.RequestReview,
		CloseReview:      s.CloseReview,
		MarkAsPaid:       s.MarkAsPaid,
		OnCurrencyChange: s.ChangeCurrency,
	}
}
