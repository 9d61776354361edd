// Package testutils holds fixtures shared by the front end and session tests.
package testutils

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// WritePNG writes a w x h PNG with a horizontal gradient so every mode has
// more than one color to map.
func WritePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: 120, B: uint8(y * 255 / h), A: 255})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// PopulateBrowseDir lays out the listing most tests start from:
// Desktop/, a.png (6x4), b.txt and .hidden. Listed, that is
// [Desktop a.png b.txt].
func PopulateBrowseDir(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Desktop"), 0o755))
	WritePNG(t, filepath.Join(dir, "a.png"), 6, 4)
	CreateTestFilesWithContent(t, dir, map[string]string{
		"b.txt":   "text",
		".hidden": "",
	})
}

// BrowseFixture is PopulateBrowseDir in a fresh temp dir.
func BrowseFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	PopulateBrowseDir(t, dir)
	return dir
}

// StripANSI removes terminal escape sequences from a rendered view.
func StripANSI(str string) string {
	return ansi.Strip(str)
}
