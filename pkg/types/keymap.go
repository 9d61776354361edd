package types

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings of the command surface.
// It's in pkg/types so the terminal and desktop front ends share it.
type KeyMap struct {
	// Commands
	Preview       key.Binding
	Save          key.Binding
	Reset         key.Binding
	Delete        key.Binding
	Quit          key.Binding
	FocusAddress  key.Binding
	FocusFilename key.Binding
	DirUp         key.Binding
	ModeDefault   key.Binding
	ModeCreative  key.Binding
	ModeKnn       key.Binding

	// Terminal only
	Up      key.Binding
	Down    key.Binding
	Click   key.Binding
	Filter  key.Binding
	FocusK  key.Binding
	Open    key.Binding
	History key.Binding
	Blur    key.Binding
	Help    key.Binding
}

// DefaultKeyMap returns the standard bindings. Basic commands have a ctrl+
// variant and mode keys an alt+ variant; only those fire while a text field
// has focus.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Preview:       key.NewBinding(key.WithKeys("p", "ctrl+p"), key.WithHelp("p", "preview")),
		Save:          key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Reset:         key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reset")),
		Delete:        key.NewBinding(key.WithKeys("delete", "ctrl+d"), key.WithHelp("del", "delete selected")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		FocusAddress:  key.NewBinding(key.WithKeys("l", "ctrl+l"), key.WithHelp("l", "address bar")),
		FocusFilename: key.NewBinding(key.WithKeys("f", "ctrl+f"), key.WithHelp("f", "filename")),
		DirUp:         key.NewBinding(key.WithKeys("backspace", "ctrl+up"), key.WithHelp("⌫", "up a directory")),
		ModeDefault:   key.NewBinding(key.WithKeys("1", "alt+1"), key.WithHelp("1", "default")),
		ModeCreative:  key.NewBinding(key.WithKeys("2", "alt+2"), key.WithHelp("2", "creative")),
		ModeKnn:       key.NewBinding(key.WithKeys("3", "alt+3"), key.WithHelp("3", "knn")),

		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Click:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/select")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		FocusK:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "knn value")),
		Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open preview")),
		History: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "history")),
		Blur:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave field")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Preview, k.Save, k.Reset, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Click, k.DirUp, k.Filter, k.History},
		{k.Preview, k.Save, k.Reset, k.Delete, k.Open},
		{k.ModeDefault, k.ModeCreative, k.ModeKnn, k.FocusK},
		{k.FocusAddress, k.FocusFilename, k.Blur, k.Help, k.Quit},
	}
}

// Modified reports whether a key string carries a ctrl or alt modifier.
// While a text field has focus only modified keys reach the command surface.
func Modified(keyName string) bool {
	return strings.HasPrefix(keyName, "ctrl+") || strings.HasPrefix(keyName, "alt+")
}
