//go:build !nogui

package gui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"nordify/internal/config"
	"nordify/internal/log"
	"nordify/internal/session"
	"nordify/pkg/types"
)

// App is the desktop front end. It renders session state and turns widget
// callbacks and key presses into session commands.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	session *session.Session
	cfg     *config.Config
	keys    types.KeyMap
	logger  *log.Logger

	mu        sync.Mutex // guards state
	state     session.State
	refreshMu sync.Mutex
	syncing   atomic.Bool // set while refresh writes widgets

	address  *commandEntry
	list     *widget.List
	modes    *widget.RadioGroup
	kEntry   *commandEntry
	kSlider  *widget.Slider
	kRow     *fyne.Container
	noOpts   *widget.Label
	filename *commandEntry
	validity *widget.Label
	info     *widget.Label
	original *canvas.Image
	preview  *canvas.Image
	status   *widget.Label
	goMenu   *fyne.Menu

	previewButton *widget.Button
	saveButton    *widget.Button
	resetButton   *widget.Button
	deleteButton  *widget.Button

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures NewApp.
type Option func(*App)

// WithFyneApp runs the window inside an existing fyne application.
func WithFyneApp(fa fyne.App) Option {
	return func(a *App) { a.fyneApp = fa }
}

// NewApp builds the main window over s.
func NewApp(s *session.Session, cfg *config.Config, opts ...Option) *App {
	a := &App{
		session: s,
		cfg:     cfg,
		keys:    types.DefaultKeyMap(),
		logger:  log.LogWithFields(log.F("component", "gui"), log.F("session", s.ID())),
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.fyneApp == nil {
		a.fyneApp = app.NewWithID("io.github.nordify")
	}
	a.fyneApp.Settings().SetTheme(newConfigTheme(cfg))

	a.window = a.fyneApp.NewWindow("Nordify")
	a.setupMainWindow()
	a.refresh()

	return a
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	if a.cfg.Watch.Enabled && a.cfg.Watch.IntervalMS > 0 {
		go a.watchLoop(time.Duration(a.cfg.Watch.IntervalMS) * time.Millisecond)
	}
	a.window.ShowAndRun()
	a.stopWatching()
}

// Run opens the desktop front end and returns once its window closes.
func Run(s *session.Session, cfg *config.Config) error {
	NewApp(s, cfg).Run()
	return nil
}

// Available reports whether this build includes the desktop front end.
func Available() bool { return true }

// GetMainWindow returns the main window.
func (a *App) GetMainWindow() fyne.Window {
	return a.window
}

func (a *App) setupMainWindow() {
	a.address = newCommandEntry(a)
	a.address.SetPlaceHolder("Directory")
	a.address.OnSubmitted = func(text string) {
		a.window.Canvas().Unfocus()
		a.dispatch(session.Submit{Text: text})
	}
	a.address.onEscape = func() {
		a.address.SetText(a.currentState().AddressText)
		a.window.Canvas().Unfocus()
	}
	up := widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		a.dispatch(session.DirUp{})
	})
	top := container.NewBorder(nil, nil, up, nil, a.address)

	a.list = widget.NewList(a.entryCount, newEntryRow, a.updateEntryRow)
	a.list.OnSelected = func(id widget.ListItemID) {
		a.list.UnselectAll()
		a.click(id)
	}

	content := container.NewBorder(top, a.createStatusBar(), nil, nil,
		a.createSplit())
	a.window.SetContent(content)
	a.window.Resize(fyne.NewSize(960, 680))

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		a.handleKey(keyPress(strings.ToLower(string(ev.Name))))
	})
	a.registerShortcuts()
	a.window.SetOnClosed(a.stopWatching)
	a.updateMenu()
}

func (a *App) createSplit() fyne.CanvasObject {
	split := container.NewHSplit(a.list, a.createTransformPanel())
	split.Offset = 0.4
	return split
}

func (a *App) createTransformPanel() fyne.CanvasObject {
	var names []string
	for _, m := range types.Modes() {
		names = append(names, m.String())
	}
	a.modes = widget.NewRadioGroup(names, func(value string) {
		if a.syncing.Load() {
			return
		}
		mode, err := types.ParseMode(value)
		if err != nil {
			return
		}
		a.dispatch(session.SetMode{Mode: mode})
	})
	a.modes.Horizontal = true
	a.modes.Required = true

	a.kEntry = newCommandEntry(a)
	a.kEntry.OnChanged = func(text string) {
		if !a.syncing.Load() {
			a.dispatch(session.SetKText{Text: text})
		}
	}
	a.kSlider = widget.NewSlider(1, 255)
	a.kSlider.Step = 1
	a.kSlider.OnChanged = func(v float64) {
		if !a.syncing.Load() {
			a.dispatch(session.SetK{K: uint8(v)})
		}
	}
	a.kRow = container.NewBorder(nil, nil, widget.NewLabel("k"), nil,
		container.NewGridWithColumns(2, a.kEntry, a.kSlider))
	a.noOpts = widget.NewLabel("No additional options for this mode")

	a.filename = newCommandEntry(a)
	a.filename.SetPlaceHolder("output.png")
	a.filename.OnChanged = func(text string) {
		if !a.syncing.Load() {
			a.dispatch(session.SetFilename{Name: text})
		}
	}
	a.validity = widget.NewLabel("")

	a.previewButton = widget.NewButtonWithIcon("Preview", theme.VisibilityIcon(), func() {
		a.dispatch(session.Preview{})
	})
	a.saveButton = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		a.dispatch(session.Save{})
	})
	a.resetButton = widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), func() {
		a.dispatch(session.Reset{})
	})
	a.deleteButton = widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		a.dispatch(session.DeleteSelected{})
	})
	a.deleteButton.Importance = widget.DangerImportance

	a.info = widget.NewLabel("")
	a.info.Wrapping = fyne.TextWrapWord

	a.original = newImagePane()
	a.preview = newImagePane()
	panes := container.NewGridWithColumns(2,
		container.NewBorder(widget.NewLabelWithStyle("Original", fyne.TextAlignCenter, fyne.TextStyle{}), nil, nil, nil, a.original),
		container.NewBorder(widget.NewLabelWithStyle("Nordified", fyne.TextAlignCenter, fyne.TextStyle{}), nil, nil, nil, a.preview),
	)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Transform", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.modes,
		a.kRow,
		a.noOpts,
		widget.NewForm(widget.NewFormItem("Filename", a.filename)),
		a.validity,
		container.NewHBox(a.previewButton, a.saveButton, a.resetButton, layout.NewSpacer(), a.deleteButton),
		widget.NewSeparator(),
		a.info,
	)
	return container.NewBorder(form, nil, nil, nil, panes)
}

func newImagePane() *canvas.Image {
	img := canvas.NewImageFromResource(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(240, 180))
	return img
}

func (a *App) createStatusBar() fyne.CanvasObject {
	a.status = widget.NewLabel("")
	a.status.Truncation = fyne.TextTruncateEllipsis
	return a.status
}

func (a *App) updateMenu() {
	visits, err := a.session.Recent()
	if err != nil {
		a.logger.WithError(err).Warn("failed to load history")
	}

	items := []*fyne.MenuItem{
		fyne.NewMenuItem("Up", func() { a.dispatch(session.DirUp{}) }),
	}
	if len(visits) > 0 {
		items = append(items, fyne.NewMenuItemSeparator())
	}
	for _, v := range visits {
		dir := v.Path
		items = append(items, fyne.NewMenuItem(dir, func() {
			a.dispatch(session.Submit{Text: dir})
		}))
	}
	a.goMenu = fyne.NewMenu("Go", items...)

	help := fyne.NewMenu("Help", fyne.NewMenuItem("Keyboard shortcuts", func() {
		dialog.ShowInformation("Keyboard shortcuts", a.keysHelp(), a.window)
	}))
	a.window.SetMainMenu(fyne.NewMainMenu(a.goMenu, help))
}

// newEntryRow is the list item template: icon, name, size and age.
func newEntryRow() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewIcon(theme.FileIcon()),
		widget.NewLabel("name"),
		layout.NewSpacer(),
		widget.NewLabel(""),
	)
}

func (a *App) entryCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.state.Entries)
}

func (a *App) updateEntryRow(id widget.ListItemID, o fyne.CanvasObject) {
	a.mu.Lock()
	if id < 0 || id >= len(a.state.Entries) {
		a.mu.Unlock()
		return
	}
	e := a.state.Entries[id]
	a.mu.Unlock()

	row := o.(*fyne.Container)
	icon := row.Objects[0].(*widget.Icon)
	name := row.Objects[1].(*widget.Label)
	details := row.Objects[3].(*widget.Label)

	name.TextStyle = fyne.TextStyle{Bold: e.Selected}
	name.SetText(e.Name)
	switch e.Kind {
	case types.Directory:
		icon.SetResource(theme.FolderIcon())
		details.SetText("")
	case types.Image:
		icon.SetResource(theme.FileImageIcon())
		details.SetText(humanize.Bytes(uint64(e.Size)) + "  " + humanize.Time(e.ModTime))
	default:
		icon.SetResource(theme.FileIcon())
		details.SetText(humanize.Bytes(uint64(e.Size)) + "  " + humanize.Time(e.ModTime))
	}
}

func (a *App) click(id widget.ListItemID) {
	st := a.currentState()
	if id < 0 || id >= len(st.Entries) {
		return
	}
	e := st.Entries[id]
	a.dispatch(session.ClickEntry{Ordinal: e.Ordinal, Generation: st.Generation})
}

// dispatch runs cmd on the session and redraws. Command failures are part
// of the state and show up in the status bar.
func (a *App) dispatch(cmd session.Command) {
	if _, err := a.session.Dispatch(cmd); err != nil {
		a.logger.With(log.F("command", cmd.String())).Debugf("dispatch: %v", err)
	}
	a.refresh()
}

func (a *App) currentState() session.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *App) focused(e *commandEntry) bool {
	return a.window.Canvas().Focused() == fyne.Focusable(e)
}

// refresh copies the session state into the widgets. Fields with focus keep
// what the user is typing.
func (a *App) refresh() {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()
	a.syncing.Store(true)
	defer a.syncing.Store(false)

	st := a.session.State()
	a.mu.Lock()
	prevDir := a.state.CurrentDir
	a.state = st
	a.mu.Unlock()

	a.window.SetTitle("Nordify - " + st.CurrentDir)
	if !a.focused(a.address) {
		a.address.SetText(st.AddressText)
	}
	a.list.Refresh()
	if st.CurrentDir != prevDir {
		a.list.ScrollToTop()
		if prevDir != "" {
			a.updateMenu()
		}
	}

	a.modes.SetSelected(st.Mode.String())
	if st.Mode == types.Knn {
		a.kRow.Show()
		a.noOpts.Hide()
	} else {
		a.kRow.Hide()
		a.noOpts.Show()
	}
	if k := strconv.Itoa(int(st.K)); !a.focused(a.kEntry) && a.kEntry.Text != k {
		a.kEntry.SetText(k)
	}
	a.kSlider.SetValue(float64(st.K))

	if !a.focused(a.filename) && a.filename.Text != st.Filename {
		a.filename.SetText(st.Filename)
	}
	switch {
	case st.Filename == "":
		a.validity.SetText("")
	case st.FilenameValid:
		a.validity.SetText("✓ valid filename")
	default:
		a.validity.SetText("✗ needs a name and an image extension")
	}

	switch {
	case st.SelectionInfo != nil:
		a.info.SetText(st.SelectionInfo.String())
	case st.Selection != "":
		a.info.SetText(st.Selection)
	default:
		a.info.SetText("No image selected")
	}
	if st.Selection == "" {
		a.previewButton.Disable()
		a.saveButton.Disable()
		a.deleteButton.Disable()
	} else {
		a.previewButton.Enable()
		a.deleteButton.Enable()
		if st.FilenameValid {
			a.saveButton.Enable()
		} else {
			a.saveButton.Disable()
		}
	}

	setImage(a.original, st.Selection)
	setImage(a.preview, st.PreviewPath)

	switch {
	case st.LastError != nil:
		a.status.Importance = widget.DangerImportance
		a.status.SetText(st.LastError.Error())
	case st.Notice != "":
		a.status.Importance = widget.WarningImportance
		a.status.SetText(st.Notice)
	default:
		a.status.Importance = widget.MediumImportance
		a.status.SetText(fmt.Sprintf("%d entries", len(st.Entries)))
	}
}

func (a *App) watchLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			a.sync()
		}
	}
}

// sync picks up changes the watcher saw in the current directory.
func (a *App) sync() {
	events, err := a.session.Dispatch(session.Sync{})
	if err != nil || len(events) > 0 {
		a.refresh()
	}
}

func (a *App) stopWatching() {
	a.stopOnce.Do(func() { close(a.stop) })
}

func (a *App) quit() {
	a.stopWatching()
	a.fyneApp.Quit()
}

func (a *App) keysHelp() string {
	var sb strings.Builder
	for _, b := range a.commandBindings() {
		h := b.Help()
		sb.WriteString(fmt.Sprintf("%-4s %s\n", h.Key, h.Desc))
	}
	sb.WriteString("\nWhile typing in a field use ctrl+ for commands and alt+ for modes.")
	return sb.String()
}

func setImage(img *canvas.Image, path string) {
	if img.File != path {
		img.File = path
		img.Refresh()
	}
}
