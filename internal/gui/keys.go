//go:build !nogui

package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/bubbles/key"

	"nordify/internal/session"
	"nordify/pkg/types"
)

// keyPress is a key in the notation the shared key map uses ("p", "ctrl+p",
// "alt+1", "backspace").
type keyPress string

func (k keyPress) String() string { return string(k) }

var keyNames = map[string]fyne.KeyName{
	"backspace": fyne.KeyBackspace,
	"delete":    fyne.KeyDelete,
	"up":        fyne.KeyUp,
}

// commandBindings are the bindings both front ends honor.
func (a *App) commandBindings() []key.Binding {
	k := a.keys
	return []key.Binding{
		k.Preview, k.Save, k.Reset, k.Delete, k.Quit,
		k.FocusAddress, k.FocusFilename, k.DirUp,
		k.ModeDefault, k.ModeCreative, k.ModeKnn,
	}
}

// handleKey runs the command bound to k. Plain keys only arrive here while
// no entry has focus; entries forward their modified keys.
func (a *App) handleKey(k keyPress) bool {
	switch {
	case key.Matches(k, a.keys.Preview):
		a.dispatch(session.Preview{})
	case key.Matches(k, a.keys.Save):
		a.dispatch(session.Save{})
	case key.Matches(k, a.keys.Reset):
		a.dispatch(session.Reset{})
	case key.Matches(k, a.keys.Delete):
		a.dispatch(session.DeleteSelected{})
	case key.Matches(k, a.keys.Quit):
		a.quit()
	case key.Matches(k, a.keys.FocusAddress):
		a.window.Canvas().Focus(a.address)
	case key.Matches(k, a.keys.FocusFilename):
		a.window.Canvas().Focus(a.filename)
	case key.Matches(k, a.keys.DirUp):
		a.dispatch(session.DirUp{})
	case key.Matches(k, a.keys.ModeDefault):
		a.dispatch(session.SetMode{Mode: types.Default})
	case key.Matches(k, a.keys.ModeCreative):
		a.dispatch(session.SetMode{Mode: types.Creative})
	case key.Matches(k, a.keys.ModeKnn):
		a.dispatch(session.SetMode{Mode: types.Knn})
	default:
		return false
	}
	return true
}

// registerShortcuts adds the ctrl+ and alt+ variants to the canvas so they
// also work when nothing has focus.
func (a *App) registerShortcuts() {
	for _, b := range a.commandBindings() {
		for _, k := range b.Keys() {
			if k == "ctrl+c" {
				// the driver delivers it as copy
				continue
			}
			s := parseShortcut(k)
			if s == nil {
				continue
			}
			a.window.Canvas().AddShortcut(s, func(fyne.Shortcut) {
				a.handleKey(keyPress(k))
			})
		}
	}
}

// parseShortcut turns "ctrl+p" into a desktop shortcut, or nil for keys
// without a modifier.
func parseShortcut(k string) *desktop.CustomShortcut {
	mod, name, ok := strings.Cut(k, "+")
	if !ok {
		return nil
	}

	var modifier fyne.KeyModifier
	switch mod {
	case "ctrl":
		modifier = fyne.KeyModifierControl
	case "alt":
		modifier = fyne.KeyModifierAlt
	default:
		return nil
	}

	keyName, known := keyNames[name]
	if !known {
		keyName = fyne.KeyName(strings.ToUpper(name))
	}
	return &desktop.CustomShortcut{KeyName: keyName, Modifier: modifier}
}

// shortcutKey is the inverse of parseShortcut.
func shortcutKey(s fyne.Shortcut) (keyPress, bool) {
	cs, ok := s.(*desktop.CustomShortcut)
	if !ok {
		return "", false
	}

	var prefix string
	switch cs.Modifier {
	case fyne.KeyModifierControl:
		prefix = "ctrl+"
	case fyne.KeyModifierAlt:
		prefix = "alt+"
	default:
		return "", false
	}
	return keyPress(prefix + strings.ToLower(string(cs.KeyName))), true
}

// commandEntry is an entry that hands modified command keys to the app and
// gives up focus on escape. Everything else is typed into the field.
type commandEntry struct {
	widget.Entry

	app      *App
	onEscape func()
}

func newCommandEntry(a *App) *commandEntry {
	e := &commandEntry{app: a}
	e.ExtendBaseWidget(e)
	return e
}

func (e *commandEntry) TypedShortcut(s fyne.Shortcut) {
	if k, ok := shortcutKey(s); ok && e.app.handleKey(k) {
		return
	}
	e.Entry.TypedShortcut(s)
}

func (e *commandEntry) TypedKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape {
		if e.onEscape != nil {
			e.onEscape()
		} else {
			e.app.window.Canvas().Unfocus()
		}
		return
	}
	e.Entry.TypedKey(ev)
}
