// Package tui is the interactive invoice editor. It renders invoice.State and
// drives the session only through invoice.Hooks.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/invoicer-dev/invoicer/internal/derive"
	"github.com/invoicer-dev/invoicer/internal/export"
	"github.com/invoicer-dev/invoicer/internal/exportlog"
	"github.com/invoicer-dev/invoicer/internal/invoice"
	"github.com/invoicer-dev/invoicer/internal/lineitem"
	"github.com/invoicer-dev/invoicer/internal/model"
	"github.com/invoicer-dev/invoicer/internal/money"
	"github.com/invoicer-dev/invoicer/internal/render"
)

var fieldLabels = map[invoice.Field]string{
	invoice.FieldInvoiceNumber:   "Invoice #",
	invoice.FieldIssueDate:       "Issue date",
	invoice.FieldDueDate:         "Due date",
	invoice.FieldBillTo:          "Bill to",
	invoice.FieldBillToEmail:     "Bill to email",
	invoice.FieldBillToAddress:   "Bill to address",
	invoice.FieldBillFrom:        "Bill from",
	invoice.FieldBillFromEmail:   "Bill from email",
	invoice.FieldBillFromAddress: "Bill from address",
	invoice.FieldNotes:           "Notes",
	invoice.FieldTaxRate:         "Tax rate (%)",
	invoice.FieldDiscountRate:    "Discount rate (%)",
	invoice.FieldAmountPaid:      "Amount paid",
}

// target is one editable cell: either a header field or an item field.
type target struct {
	field     invoice.Field
	itemID    string
	itemField lineitem.Field
}

func (t target) isItem() bool { return t.itemID != "" }

func (t target) value(st invoice.State) string {
	if !t.isItem() {
		v, _ := st.Value(t.field)
		return v
	}
	item, _ := st.Items.Find(t.itemID)
	switch t.itemField {
	case lineitem.FieldName:
		return item.Name
	case lineitem.FieldDescription:
		return item.Description
	case lineitem.FieldPrice:
		return item.Price
	default:
		return item.Quantity
	}
}

// exportDoneMsg carries the outcome of a background export.
type exportDoneMsg struct {
	result  export.Result
	preview render.Preview
}

// Options configures an Editor.
type Options struct {
	Exporters *export.Registry
	ExportDir string
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

// Editor is the bubbletea model for one invoice session.
type Editor struct {
	session   *invoice.Session
	hooks     invoice.Hooks
	exporters *export.Registry
	exportDir string
	log       logrus.FieldLogger
	now       func() time.Time
	keys      KeyMap
	help      help.Model

	ctx    context.Context
	cancel context.CancelFunc

	cursor    int
	input     textinput.Model
	typing    bool
	exporting bool
	statusMsg string
	err       error
}

// NewEditor creates an editor over s.
func NewEditor(s *invoice.Session, opts Options) *Editor {
	if opts.Exporters == nil {
		opts.Exporters = export.DefaultRegistry("")
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 48

	ctx, cancel := context.WithCancel(context.Background())
	return &Editor{
		session:   s,
		hooks:     s.Hooks(),
		exporters: opts.Exporters,
		exportDir: opts.ExportDir,
		log:       opts.Logger,
		now:       opts.Now,
		keys:      DefaultKeyMap,
		help:      help.New(),
		ctx:       ctx,
		cancel:    cancel,
		input:     ti,
	}
}

func (m *Editor) Init() tea.Cmd {
	return nil
}

// targets lists the editable cells in display order.
func (m *Editor) targets(st invoice.State) []target {
	out := make([]target, 0, len(invoice.Fields)+4*len(st.Items))
	for _, f := range invoice.Fields {
		out = append(out, target{field: f})
	}
	for _, item := range st.Items {
		for _, f := range []lineitem.Field{lineitem.FieldName, lineitem.FieldDescription, lineitem.FieldPrice, lineitem.FieldQuantity} {
			out = append(out, target{itemID: item.ID, itemField: f})
		}
	}
	return out
}

func (m *Editor) current(st invoice.State) target {
	ts := m.targets(st)
	return ts[max(0, min(m.cursor, len(ts)-1))]
}

// clampCursor keeps the cursor on a cell after the item list shrinks.
func (m *Editor) clampCursor() {
	m.cursor = min(m.cursor, len(m.targets(m.session.State()))-1)
}

func (m *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		m.exporting = false
		m.finishExport(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (!m.typing && key.Matches(msg, m.keys.Quit)) {
			m.cancel()
			return m, tea.Quit
		}
		if m.typing {
			return m.updateInput(msg)
		}
		m.err = nil
		if m.session.State().Reviewing() {
			return m.updateReview(msg)
		}
		return m.updateForm(msg)
	}

	if m.typing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Editor) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.session.State()
	m.statusMsg = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.targets(st))-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Edit):
		m.input.SetValue(m.current(st).value(st))
		m.input.CursorEnd()
		m.typing = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.AddItem):
		item, err := m.hooks.AddItem()
		if err != nil {
			m.err = err
			break
		}
		m.cursor = m.indexOf(target{itemID: item.ID, itemField: lineitem.FieldName})
	case key.Matches(msg, m.keys.RemoveItem):
		t := m.current(st)
		if !t.isItem() {
			m.err = fmt.Errorf("move to an item to delete it")
			break
		}
		if err := m.hooks.RemoveItem(t.itemID); err != nil {
			m.err = err
			break
		}
		m.clampCursor()
	case key.Matches(msg, m.keys.MarkPaid):
		if err := m.hooks.MarkAsPaid(); err != nil {
			m.err = err
			break
		}
		m.statusMsg = "Marked as paid"
	case key.Matches(msg, m.keys.Currency):
		next := nextCurrency(st.Header.Currency)
		if err := m.hooks.OnCurrencyChange(next.Symbol); err != nil {
			m.err = err
			break
		}
		m.statusMsg = "Currency: " + next.Code
	case key.Matches(msg, m.keys.Review):
		if _, err := m.hooks.RequestReview(); err != nil {
			m.err = err
		}
	}
	return m, nil
}

func (m *Editor) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopTyping()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		st := m.session.State()
		t := m.current(st)
		value := m.input.Value()
		var err error
		if t.isItem() {
			err = m.hooks.EditItemField(t.itemID, t.itemField, value)
		} else {
			err = m.hooks.EditField(t.field, value)
		}
		m.err = err
		m.stopTyping()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Editor) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.hooks.CloseReview()
		m.statusMsg = ""
	case key.Matches(msg, m.keys.ExportPDF):
		return m, m.startExport("pdf")
	case key.Matches(msg, m.keys.ExportXLSX):
		return m, m.startExport("xlsx")
	}
	return m, nil
}

func (m *Editor) stopTyping() {
	m.typing = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Editor) indexOf(t target) int {
	for i, c := range m.targets(m.session.State()) {
		if c == t {
			return i
		}
	}
	return m.cursor
}

func (m *Editor) startExport(format string) tea.Cmd {
	if m.exporting {
		return nil
	}
	e := m.exporters.Get(format)
	if e == nil {
		m.err = fmt.Errorf("no exporter for %q", format)
		return nil
	}
	snap, err := m.session.Snapshot()
	if err != nil {
		m.err = err
		return nil
	}
	preview := render.Build(snap)
	m.exporting = true
	m.statusMsg = "Exporting " + strings.ToUpper(format) + "..."

	ctx, dir := m.ctx, m.exportDir
	return func() tea.Msg {
		return exportDoneMsg{result: <-export.Start(ctx, e, preview, dir), preview: preview}
	}
}

func (m *Editor) finishExport(msg exportDoneMsg) {
	res := msg.result
	if res.Err != nil {
		m.err = res.Err
		m.statusMsg = ""
		m.log.WithField("format", res.Format).Error(res.Err.Error())
		return
	}
	m.statusMsg = "Saved " + res.Path
	entry := exportlog.NewEntry(m.now(), msg.preview, res.Format, res.Path)
	if err := exportlog.Append(m.exportDir, entry); err != nil {
		m.log.WithError(err).Warn("writing export log")
	}
}

func nextCurrency(symbol string) model.Currency {
	for i, c := range model.Currencies {
		if c.Symbol == symbol {
			return model.Currencies[(i+1)%len(model.Currencies)]
		}
	}
	return model.Currencies[0]
}

func (m *Editor) View() string {
	st := m.session.State()
	var s string

	s += titleStyle.Render("Invoice "+st.Header.InvoiceNumber) + "\n"

	if st.Reviewing() {
		s += m.viewReview()
	} else {
		s += m.viewForm(st)
	}

	if m.statusMsg != "" {
		s += "\n" + lipgloss.NewStyle().Foreground(successColor).Render("  "+m.statusMsg) + "\n"
	}
	if m.err != nil {
		s += "\n" + lipgloss.NewStyle().Foreground(errorColor).Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}

	bindings := m.keys.formHelp()
	if st.Reviewing() {
		bindings = m.keys.reviewHelp()
	}
	return s + "\n  " + m.help.ShortHelpView(bindings) + "\n"
}

func (m *Editor) viewForm(st invoice.State) string {
	var b strings.Builder
	cur := m.current(st)

	row := func(t target, label string) {
		if t != cur {
			b.WriteString("  " + labelStyle.Render(label) + " " + t.value(st) + "\n")
			return
		}
		value := t.value(st)
		if m.typing {
			value = m.input.View()
		}
		b.WriteString(selectedStyle.Render("> ") + selectedStyle.Width(18).Render(label) + " " + value + "\n")
	}

	for _, f := range invoice.Fields {
		row(target{field: f}, fieldLabels[f])
	}

	b.WriteString("\n" + subtitleStyle.Render("  Items") + "\n")
	for i, item := range st.Items {
		amount := money.WithSymbol(st.Header.Currency, money.Round(derive.LineAmount(item)))
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  #%d  %s", i+1, amount)) + "\n")
		row(target{itemID: item.ID, itemField: lineitem.FieldName}, "  Name")
		row(target{itemID: item.ID, itemField: lineitem.FieldDescription}, "  Description")
		row(target{itemID: item.ID, itemField: lineitem.FieldPrice}, "  Price")
		row(target{itemID: item.ID, itemField: lineitem.FieldQuantity}, "  Quantity")
	}

	t := st.Totals
	sym := st.Header.Currency
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %-18s %s\n", "Subtotal", money.WithSymbol(sym, t.SubTotal))
	fmt.Fprintf(&b, "  %-18s %s\n", "Tax", money.WithSymbol(sym, t.TaxAmount))
	fmt.Fprintf(&b, "  %-18s %s\n", "Discount", money.WithSymbol(sym, t.DiscountAmount))
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("  %-18s %s", "Total", money.WithSymbol(sym, t.Total))) + "\n")
	fmt.Fprintf(&b, "  %-18s %s\n", "Balance due", money.WithSymbol(sym, t.BalanceDue))
	fmt.Fprintf(&b, "  %-18s %s\n", "Status", statusBadge(t.Status))
	if over := derive.RatesAbove100(st.Rates); len(over) > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(warningColor).Render("  Rate above 100%: "+strings.Join(over, ", ")) + "\n")
	}
	return b.String()
}

func (m *Editor) viewReview() string {
	snap, err := m.session.Snapshot()
	if err != nil {
		return subtitleStyle.Render("  "+err.Error()) + "\n"
	}
	return previewStyle.Render(render.Text(render.Build(snap))) + "\n"
}
