//go:build !nogui

package gui

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nordify/internal/config"
	"nordify/internal/session"
	"nordify/pkg/testutils"
	"nordify/pkg/types"
)

// newTestApp opens a window over the shared browse fixture.
func newTestApp(t *testing.T, cfg *config.Config) (*App, string) {
	t.Helper()
	dir := cfg.Browse.StartDir
	testutils.PopulateBrowseDir(t, dir)

	s, err := session.Open(cfg, session.WithStagingBase(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	a := NewApp(s, cfg, WithFyneApp(test.NewApp()))
	t.Cleanup(a.stopWatching)
	return a, dir
}

func typeKey(a *App, name fyne.KeyName) {
	a.window.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: name})
}

func TestNewApp(t *testing.T) {
	a, dir := newTestApp(t, config.NewTestConfig(t.TempDir()))

	require.NotNil(t, a.GetMainWindow())
	require.NotNil(t, a.GetMainWindow().Content())
	assert.Equal(t, 3, a.list.Length())
	assert.Equal(t, dir, a.address.Text)
	assert.Contains(t, a.window.Title(), dir)
	assert.Equal(t, "default", a.modes.Selected)
	assert.False(t, a.kRow.Visible())
	assert.True(t, a.previewButton.Disabled())
	assert.Equal(t, "No image selected", a.info.Text)
	assert.Empty(t, a.original.File)
}

func TestSelectResetPreviewSave(t *testing.T) {
	a, dir := newTestApp(t, config.NewTestConfig(t.TempDir()))

	a.list.Select(1)
	assert.Equal(t, filepath.Join(dir, "a.png"), a.currentState().Selection)
	assert.Contains(t, a.info.Text, "a.png")
	assert.Equal(t, filepath.Join(dir, "a.png"), a.original.File)
	assert.Empty(t, a.preview.File)
	assert.False(t, a.previewButton.Disabled())

	test.Tap(a.resetButton)
	assert.Equal(t, "a_nordified.png", a.filename.Text)
	assert.Contains(t, a.validity.Text, "✓")
	assert.False(t, a.saveButton.Disabled())

	test.Tap(a.previewButton)
	st := a.currentState()
	require.NotEmpty(t, st.PreviewPath)
	assert.FileExists(t, st.PreviewPath)
	assert.Equal(t, st.PreviewPath, a.preview.File)
	assert.Equal(t, filepath.Join(dir, "a.png"), a.original.File, "both panes show side by side")

	test.Tap(a.saveButton)
	assert.FileExists(t, filepath.Join(dir, "a_nordified.png"))
	assert.Equal(t, 4, a.list.Length())
	assert.Contains(t, a.status.Text, "saved")
}

func TestFilenameValidity(t *testing.T) {
	a, _ := newTestApp(t, config.NewTestConfig(t.TempDir()))

	a.filename.SetText("out/a.png")
	assert.Equal(t, "out/a.png", a.currentState().Filename)
	assert.Contains(t, a.validity.Text, "✗")
	assert.True(t, a.saveButton.Disabled())
}

func TestCommandKeys(t *testing.T) {
	a, dir := newTestApp(t, config.NewTestConfig(t.TempDir()))

	typeKey(a, fyne.Key2)
	assert.Equal(t, types.Creative, a.currentState().Mode)
	assert.Equal(t, "creative", a.modes.Selected)

	a.list.Select(0)
	require.Equal(t, filepath.Join(dir, "Desktop"), a.currentState().CurrentDir)
	typeKey(a, fyne.KeyBackspace)
	assert.Equal(t, dir, a.currentState().CurrentDir)
	assert.Equal(t, dir, a.address.Text)

	typeKey(a, fyne.KeyP)
	assert.Equal(t, widget.WarningImportance, a.status.Importance, "preview without a selection is reported")
	assert.Empty(t, a.currentState().PreviewPath)
}

func TestKeysWhileEditing(t *testing.T) {
	a, _ := newTestApp(t, config.NewTestConfig(t.TempDir()))
	a.list.Select(1)

	typeKey(a, fyne.KeyF)
	require.Equal(t, fyne.Focusable(a.filename), a.window.Canvas().Focused())

	// Plain keys go into the field
	test.Type(a.filename, "p.png")
	assert.Equal(t, "p.png", a.currentState().Filename)
	assert.Empty(t, a.currentState().PreviewPath)

	// Modified variants still reach the app
	a.filename.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.Key3, Modifier: fyne.KeyModifierAlt})
	assert.Equal(t, types.Knn, a.currentState().Mode)
	a.filename.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyP, Modifier: fyne.KeyModifierControl})
	assert.NotEmpty(t, a.currentState().PreviewPath)

	a.filename.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.Nil(t, a.window.Canvas().Focused())
}

func TestAddressBar(t *testing.T) {
	a, dir := newTestApp(t, config.NewTestConfig(t.TempDir()))

	typeKey(a, fyne.KeyL)
	require.Equal(t, fyne.Focusable(a.address), a.window.Canvas().Focused())

	a.address.SetText(filepath.Join(dir, "Desktop"))
	a.address.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	assert.Equal(t, filepath.Join(dir, "Desktop"), a.currentState().CurrentDir)
	assert.Equal(t, 0, a.list.Length())
	assert.Nil(t, a.window.Canvas().Focused())

	// Not a directory: nothing changes and the address is restored
	typeKey(a, fyne.KeyL)
	a.address.SetText(filepath.Join(dir, "b.txt"))
	a.address.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	assert.Equal(t, filepath.Join(dir, "Desktop"), a.currentState().CurrentDir)
	assert.Equal(t, filepath.Join(dir, "Desktop"), a.address.Text)
	assert.NotEmpty(t, a.status.Text)
}

func TestKnnControls(t *testing.T) {
	a, _ := newTestApp(t, config.NewTestConfig(t.TempDir()))

	typeKey(a, fyne.Key3)
	assert.True(t, a.kRow.Visible())
	assert.False(t, a.noOpts.Visible())
	assert.Equal(t, "32", a.kEntry.Text)

	a.kEntry.SetText("10")
	assert.Equal(t, uint8(10), a.currentState().K)
	assert.Equal(t, float64(10), a.kSlider.Value)

	a.kEntry.SetText("abc")
	assert.Equal(t, uint8(10), a.currentState().K)
	assert.NotEmpty(t, a.status.Text)

	a.kSlider.OnChanged(200)
	assert.Equal(t, uint8(200), a.currentState().K)
	assert.Equal(t, "200", a.kEntry.Text)

	typeKey(a, fyne.Key1)
	assert.False(t, a.kRow.Visible())
	assert.Equal(t, uint8(200), a.currentState().K)
}

func TestDeleteKey(t *testing.T) {
	a, dir := newTestApp(t, config.NewTestConfig(t.TempDir()))
	a.list.Select(1)

	require.Equal(t, filepath.Join(dir, "a.png"), a.original.File)

	typeKey(a, fyne.KeyDelete)
	assert.NoFileExists(t, filepath.Join(dir, "a.png"))
	assert.Empty(t, a.currentState().Selection)
	assert.Empty(t, a.original.File)
	assert.Equal(t, 2, a.list.Length())
	assert.Contains(t, a.status.Text, "deleted")
}

func TestSync(t *testing.T) {
	cfg := config.NewTestConfig(t.TempDir())
	cfg.Watch.Enabled = true
	a, dir := newTestApp(t, cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("c"), 0o644))
	require.Eventually(t, func() bool {
		a.sync()
		return a.list.Length() == 4
	}, 3*time.Second, 20*time.Millisecond)
}

func TestRecentMenu(t *testing.T) {
	cfg := config.NewTestConfig(t.TempDir())
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	a, dir := newTestApp(t, cfg)

	a.list.Select(0)
	var labels []string
	for _, item := range a.goMenu.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, dir)
	assert.Contains(t, labels, filepath.Join(dir, "Desktop"))

	for _, item := range a.goMenu.Items {
		if item.Label == dir {
			item.Action()
		}
	}
	assert.Equal(t, dir, a.currentState().CurrentDir)
}

func TestKeysHelp(t *testing.T) {
	a, _ := newTestApp(t, config.NewTestConfig(t.TempDir()))
	help := a.keysHelp()
	assert.Contains(t, help, "preview")
	assert.Contains(t, help, "ctrl+")
}

func TestParseShortcut(t *testing.T) {
	tests := []struct {
		key  string
		want *desktop.CustomShortcut
	}{
		{"p", nil},
		{"ctrl+p", &desktop.CustomShortcut{KeyName: fyne.KeyP, Modifier: fyne.KeyModifierControl}},
		{"alt+1", &desktop.CustomShortcut{KeyName: fyne.Key1, Modifier: fyne.KeyModifierAlt}},
		{"ctrl+up", &desktop.CustomShortcut{KeyName: fyne.KeyUp, Modifier: fyne.KeyModifierControl}},
		{"shift+p", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := parseShortcut(tt.key)
			assert.Equal(t, tt.want, got)
			if got != nil {
				k, ok := shortcutKey(got)
				require.True(t, ok)
				assert.Equal(t, tt.key, k.String())
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{"#88C0D0", color.NRGBA{R: 0x88, G: 0xc0, B: 0xd0, A: 0xff}, true},
		{"245", color.NRGBA{R: 138, G: 138, B: 138, A: 0xff}, true},
		{"1", color.NRGBA{R: 0x80, A: 0xff}, true},
		{"100", nil, false},
		{"#zzzzzz", nil, false},
		{"", nil, false},
	}

	for _, tt := range tests {
		got, ok := parseColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
