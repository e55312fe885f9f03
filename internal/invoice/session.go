package invoice

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/invoicer-dev/invoicer/internal/derive"
	"github.com/invoicer-dev/invoicer/internal/id"
	"github.com/invoicer-dev/invoicer/internal/lineitem"
	"github.com/invoicer-dev/invoicer/internal/model"
	"github.com/invoicer-dev/invoicer/internal/money"
	"github.com/invoicer-dev/invoicer/internal/review"
)

const dateFormat = "2006-01-02"

// Defaults seeds a new session.
type Defaults struct {
	InvoiceNumber   string // generated from NumberPrefix when empty
	NumberPrefix    string
	DueDays         int
	BillFrom        string
	BillFromEmail   string
	BillFromAddress string
	Notes           string
	Currency        string // symbol or ISO code
	TaxRate         string
	DiscountRate    string
}

// Session is a single editor's invoice form. It is not safe for concurrent
// use; edits are applied and derived in the order they are issued.
type Session struct {
	state State
	gate  *review.Gate
	newID id.Generator
	now   func() time.Time
	rng   *rand.Rand
	log   logrus.FieldLogger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for edit and review events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.log = l }
}

// WithIDGenerator overrides the line item ID generator.
func WithIDGenerator(g id.Generator) Option {
	return func(s *Session) { s.newID = g }
}

// WithClock overrides the clock used for the default issue and due dates.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRand sets the source for generated invoice numbers.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// NewSession returns a session holding one blank item and derived totals.
func NewSession(d Defaults, opts ...Option) *Session {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Session{
		gate:  review.NewGate(),
		newID: id.NewItemID,
		now:   time.Now,
		log:   discard,
	}
	for _, opt := range opts {
		opt(s)
	}

	number := d.InvoiceNumber
	if number == "" {
		number = id.NewInvoiceNumber(d.NumberPrefix, s.rng)
	}
	currency := model.DefaultCurrencySymbol
	if c, ok := model.ResolveCurrency(d.Currency); ok {
		currency = c.Symbol
	}
	today := s.now()

	st := State{
		Header: model.Header{
			InvoiceNumber:   number,
			IssueDate:       today.Format(dateFormat),
			DueDate:         today.AddDate(0, 0, d.DueDays).Format(dateFormat),
			BillFrom:        d.BillFrom,
			BillFromEmail:   d.BillFromEmail,
			BillFromAddress: d.BillFromAddress,
			Notes:           d.Notes,
			Currency:        currency,
		},
		Rates: model.Rates{
			TaxRate:      orDefault(d.TaxRate, "0"),
			DiscountRate: orDefault(d.DiscountRate, "0"),
			AmountPaid:   "0.00",
		},
		Items: lineitem.List{lineitem.New(s.newID())},
		Mode:  ModeEditing,
	}
	s.commit(st)
	return s
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state.clone()
}

// Totals returns the current derived totals.
func (s *Session) Totals() model.Totals {
	return s.state.Totals
}

// EditField sets one header or rate field.
func (s *Session) EditField(f Field, value string) error {
	return s.apply(logrus.Fields{"field": f}, func(st *State) error {
		p, err := st.fieldPtr(f)
		if err != nil {
			return err
		}
		*p = value
		return nil
	})
}

// EditItemField sets one field of a line item. An unknown item ID changes
// nothing.
func (s *Session) EditItemField(itemID string, f lineitem.Field, value string) error {
	return s.apply(logrus.Fields{"item": itemID, "field": f}, func(st *State) error {
		items, err := st.Items.Update(itemID, f, value)
		if err != nil {
			return err
		}
		st.Items = items
		return nil
	})
}

// AddItem appends a blank line item and returns it.
func (s *Session) AddItem() (model.LineItem, error) {
	item := lineitem.New(s.newID())
	err := s.apply(logrus.Fields{"item": item.ID, "op": "add"}, func(st *State) error {
		st.Items = st.Items.Add(item.ID)
		return nil
	})
	if err != nil {
		return model.LineItem{}, err
	}
	return item, nil
}

// RemoveItem deletes a line item. Removing the last remaining item is refused
// with a *lineitem.GuardRailError and the state is unchanged.
func (s *Session) RemoveItem(itemID string) error {
	err := s.apply(logrus.Fields{"item": itemID, "op": "remove"}, func(st *State) error {
		items, err := st.Items.Remove(itemID)
		if err != nil {
			return err
		}
		st.Items = items
		return nil
	})
	var guard *lineitem.GuardRailError
	if errors.As(err, &guard) {
		s.log.WithField("item", itemID).Warn(err.Error())
	}
	return err
}

// ReplaceItems swaps in a whole item list, e.g. one read from a CSV file.
func (s *Session) ReplaceItems(items []model.LineItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" || seen[item.ID] {
			return fmt.Errorf("replacing items: duplicate or empty id %q", item.ID)
		}
		seen[item.ID] = true
	}
	return s.apply(logrus.Fields{"op": "replace", "count": len(items)}, func(st *State) error {
		st.Items = lineitem.List(model.CloneItems(items))
		return nil
	})
}

// ChangeCurrency switches the display symbol. Amounts are not converted.
func (s *Session) ChangeCurrency(symbolOrCode string) error {
	c, ok := model.ResolveCurrency(symbolOrCode)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, symbolOrCode)
	}
	return s.apply(logrus.Fields{"currency": c.Code}, func(st *State) error {
		st.Header.Currency = c.Symbol
		return nil
	})
}

// MarkAsPaid sets the amount paid to the current total and the status to
// paid. Calling it again changes nothing.
func (s *Session) MarkAsPaid() error {
	return s.apply(logrus.Fields{"op": "mark_paid"}, func(st *State) error {
		st.Rates.AmountPaid = money.Format(st.Totals.Total)
		st.paidInFull = true
		return nil
	})
}

// RequestReview validates the form and, when it passes, freezes a snapshot
// and enters review. On failure it returns a *review.ValidationError and the
// session stays in editing. While already reviewing it returns the existing
// snapshot.
func (s *Session) RequestReview() (model.Snapshot, error) {
	if s.state.Reviewing() {
		return s.Snapshot()
	}
	if err := s.gate.Check(s.state.Header, s.state.Items); err != nil {
		s.log.WithField("invoice", s.state.Header.InvoiceNumber).Info("review blocked: " + err.Error())
		return model.Snapshot{}, err
	}

	next := s.state.clone()
	s.commit(next)
	snap := s.state.snapshot()
	s.state.Mode = ModeReviewing
	s.state.Snapshot = &snap

	s.log.WithFields(logrus.Fields{
		"invoice": snap.Header.InvoiceNumber,
		"total":   money.Format(snap.Totals.Total),
		"status":  snap.Totals.Status,
	}).Debug("review started")
	return s.Snapshot()
}

// Snapshot returns a copy of the review snapshot.
func (s *Session) Snapshot() (model.Snapshot, error) {
	if !s.state.Reviewing() || s.state.Snapshot == nil {
		return model.Snapshot{}, fmt.Errorf("no snapshot: session is %s", s.state.Mode)
	}
	snap := *s.state.Snapshot
	snap.Items = model.CloneItems(snap.Items)
	return snap, nil
}

// CloseReview discards the snapshot and returns to editing.
func (s *Session) CloseReview() {
	if !s.state.Reviewing() {
		return
	}
	next := s.state.clone()
	next.Mode = ModeEditing
	next.Snapshot = nil
	s.state = next
	s.log.Debug("review closed")
}

// apply runs one edit: clone, mutate, derive, replace. A failed mutation
// leaves the state untouched.
func (s *Session) apply(fields logrus.Fields, mutate func(*State) error) error {
	if s.state.Reviewing() {
		return ErrReviewLocked
	}
	prev := s.state
	next := prev.clone()
	if err := mutate(&next); err != nil {
		return err
	}
	if next.paidInFull && prev.paidInFull && (next.Rates != prev.Rates || !slices.Equal(next.Items, prev.Items)) {
		next.paidInFull = false
	}
	s.commit(next)
	s.log.WithFields(fields).Debug("edit applied")
	if next.Rates != prev.Rates {
		for _, name := range derive.RatesAbove100(next.Rates) {
			s.log.WithField("field", name).Warn("rate above 100%")
		}
	}
	return nil
}

// commit derives totals for next and installs it as the current state.
func (s *Session) commit(next State) {
	next.Totals = derive.Totals(derive.Inputs{Items: next.Items, Rates: next.Rates})
	if next.paidInFull {
		next.Totals.Status = model.PaymentPaid
	}
	s.state = next
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
