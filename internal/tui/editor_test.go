package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer-dev/invoicer/internal/exportlog"
	"github.com/invoicer-dev/invoicer/internal/invoice"
	"github.com/invoicer-dev/invoicer/internal/model"
	"github.com/invoicer-dev/invoicer/internal/review"
)

var testNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestEditor(t *testing.T) (*Editor, *invoice.Session, string) {
	t.Helper()
	n := 0
	s := invoice.NewSession(invoice.Defaults{
		InvoiceNumber:   "INV-10001",
		DueDays:         30,
		BillFrom:        "Studio LLC",
		BillFromEmail:   "billing@studio.test",
		BillFromAddress: "9 Side St",
	},
		invoice.WithIDGenerator(func() string { n++; return fmt.Sprintf("item-%d", n) }),
		invoice.WithClock(func() time.Time { return testNow }),
	)
	dir := t.TempDir()
	return NewEditor(s, Options{ExportDir: dir, Now: func() time.Time { return testNow }}), s, dir
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m *Editor, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

// typeInto moves to the cell at index, opens it, types text and commits.
func typeInto(m *Editor, index int, text string) {
	m.cursor = index
	press(m, "enter")
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	press(m, "enter")
}

func fieldIndex(f invoice.Field) int {
	for i, c := range invoice.Fields {
		if c == f {
			return i
		}
	}
	return -1
}

// itemIndex is the cursor position of the n-th item's name cell.
func itemIndex(n int) int {
	return len(invoice.Fields) + 4*n
}

func fillForm(m *Editor) {
	typeInto(m, fieldIndex(invoice.FieldBillTo), "Acme Corp")
	typeInto(m, fieldIndex(invoice.FieldBillToEmail), "ap@acme.test")
	typeInto(m, fieldIndex(invoice.FieldBillToAddress), "1 Market St")
	typeInto(m, itemIndex(0), "Design")
}

func TestEditor_EditHeaderField(t *testing.T) {
	m, s, _ := newTestEditor(t)
	typeInto(m, fieldIndex(invoice.FieldBillTo), "Acme Corp")

	assert.Equal(t, "Acme Corp", s.State().Header.BillTo)
	assert.False(t, m.typing)
	assert.Contains(t, m.View(), "Acme Corp")
}

func TestEditor_EditAppendsToCurrentValue(t *testing.T) {
	m, s, _ := newTestEditor(t)
	// Price starts at "1.00"; typing appends.
	typeInto(m, itemIndex(0)+2, "5")
	assert.Equal(t, "1.005", s.State().Items[0].Price)
	assert.Equal(t, "1.01", s.Totals().SubTotal.StringFixed(2))
}

func TestEditor_EscCancelsEdit(t *testing.T) {
	m, s, _ := newTestEditor(t)
	m.cursor = fieldIndex(invoice.FieldNotes)
	press(m, "enter", "h", "i", "esc")

	assert.False(t, m.typing)
	assert.Empty(t, s.State().Header.Notes)
}

func TestEditor_QuitKeysWhileTyping(t *testing.T) {
	m, s, _ := newTestEditor(t)
	m.cursor = fieldIndex(invoice.FieldBillTo)
	press(m, "enter", "q", "enter")
	assert.Equal(t, "q", s.State().Header.BillTo, "q is text while typing")

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestEditor_Navigation(t *testing.T) {
	m, _, _ := newTestEditor(t)
	press(m, "up")
	assert.Equal(t, 0, m.cursor)
	press(m, "down", "j", "down")
	assert.Equal(t, 3, m.cursor)
	press(m, "k")
	assert.Equal(t, 2, m.cursor)

	for range 40 {
		press(m, "down")
	}
	assert.Equal(t, itemIndex(0)+3, m.cursor, "stops on the last cell")
}

func TestEditor_AddAndRemoveItems(t *testing.T) {
	m, s, _ := newTestEditor(t)

	press(m, "a")
	require.Len(t, s.State().Items, 2)
	assert.Equal(t, itemIndex(1), m.cursor, "cursor jumps to the new item")

	press(m, "d")
	require.Len(t, s.State().Items, 1)
	assert.Equal(t, "item-1", s.State().Items[0].ID)
	assert.NoError(t, m.err)

	m.cursor = itemIndex(0)
	press(m, "d")
	require.Len(t, s.State().Items, 1)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "at least one item")
}

func TestEditor_RemoveOnHeaderField(t *testing.T) {
	m, s, _ := newTestEditor(t)
	press(m, "a")
	m.cursor = 0
	press(m, "d")
	assert.Error(t, m.err)
	assert.Len(t, s.State().Items, 2)
}

func TestEditor_MarkPaidAndCurrency(t *testing.T) {
	m, s, _ := newTestEditor(t)

	press(m, "p")
	assert.Equal(t, model.PaymentPaid, s.Totals().Status)
	assert.Equal(t, "1.00", s.State().Rates.AmountPaid)

	press(m, "c")
	assert.Equal(t, "€", s.State().Header.Currency)
	press(m, "c", "c", "c", "c")
	assert.Equal(t, "$", s.State().Header.Currency, "wraps around")
}

func TestEditor_ReviewBlocked(t *testing.T) {
	m, s, _ := newTestEditor(t)
	press(m, "r")

	assert.False(t, s.State().Reviewing())
	assert.ErrorIs(t, m.err, review.ErrMissingFields)
	assert.Contains(t, m.View(), "billTo")
}

func TestEditor_ReviewAndExport(t *testing.T) {
	m, s, dir := newTestEditor(t)
	fillForm(m)

	press(m, "r")
	require.NoError(t, m.err)
	require.True(t, s.State().Reviewing())
	assert.Contains(t, m.View(), "BALANCE DUE")

	// Form keys are inert while reviewing.
	press(m, "a")
	assert.Len(t, s.State().Items, 1)

	cmd := press(m, "x")
	require.NotNil(t, cmd)
	assert.True(t, m.exporting)
	assert.Nil(t, press(m, "e"), "one export at a time")

	m.Update(cmd())
	assert.False(t, m.exporting)
	require.NoError(t, m.err)
	assert.Contains(t, m.statusMsg, "invoice-INV-10001.xlsx")
	assert.FileExists(t, dir+"/invoice-INV-10001.xlsx")

	entries, err := exportlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "xlsx", entries[0].Format)
	assert.Equal(t, "$1.00", entries[0].Total)
	assert.Equal(t, testNow, entries[0].Timestamp)

	press(m, "esc")
	assert.False(t, s.State().Reviewing())
}

func TestEditor_ExportAfterQuitIsCancelled(t *testing.T) {
	m, _, dir := newTestEditor(t)
	fillForm(m)
	press(m, "r")
	cmd := press(m, "e")
	require.NotNil(t, cmd)

	press(m, "ctrl+c")
	m.Update(cmd())
	assert.Error(t, m.err)

	entries, err := exportlog.Read(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEditor_WarnsOnRateAbove100(t *testing.T) {
	m, _, _ := newTestEditor(t)
	assert.NotContains(t, m.View(), "Rate above 100%")

	typeInto(m, fieldIndex(invoice.FieldTaxRate), "500") // "0" + "500"
	assert.Contains(t, m.View(), "Rate above 100%: taxRate")
}
