package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the editor's key bindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Edit       key.Binding
	Cancel     key.Binding
	AddItem    key.Binding
	RemoveItem key.Binding
	MarkPaid   key.Binding
	Currency   key.Binding
	Review     key.Binding
	ExportPDF  key.Binding
	ExportXLSX key.Binding
	Quit       key.Binding
}

// DefaultKeyMap is the default set of key bindings.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k", "shift+tab"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j", "tab"),
		key.WithHelp("↓/j", "down"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	AddItem: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add item"),
	),
	RemoveItem: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete item"),
	),
	MarkPaid: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "mark paid"),
	),
	Currency: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "currency"),
	),
	Review: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "review"),
	),
	ExportPDF: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export pdf"),
	),
	ExportXLSX: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export xlsx"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) formHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.AddItem, k.RemoveItem, k.MarkPaid, k.Currency, k.Review, k.Quit}
}

func (k KeyMap) reviewHelp() []key.Binding {
	return []key.Binding{k.ExportPDF, k.ExportXLSX, k.Cancel, k.Quit}
}
