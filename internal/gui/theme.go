//go:build !nogui

package gui

import (
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"nordify/internal/config"
)

// configTheme overrides the accent colors of the default theme with the
// configured ones. Colors that fail to parse keep the default.
type configTheme struct {
	fyne.Theme
	colors map[fyne.ThemeColorName]color.Color
}

func newConfigTheme(cfg *config.Config) *configTheme {
	t := &configTheme{
		Theme:  theme.DefaultTheme(),
		colors: make(map[fyne.ThemeColorName]color.Color),
	}

	set := func(name fyne.ThemeColorName, value string) {
		if c, ok := parseColor(value); ok {
			t.colors[name] = c
		}
	}
	set(theme.ColorNamePrimary, cfg.Theme.Primary)
	set(theme.ColorNameFocus, cfg.Theme.Info)
	set(theme.ColorNameSelection, cfg.Theme.Emphasis)
	set(theme.ColorNameSuccess, cfg.Theme.Success)
	set(theme.ColorNameWarning, cfg.Theme.Warning)
	set(theme.ColorNameError, cfg.Theme.Error)
	set(theme.ColorNameSeparator, cfg.Theme.Border)

	return t
}

func (t *configTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if c, ok := t.colors[name]; ok {
		return c
	}
	return t.Theme.Color(name, variant)
}

// parseColor accepts "#RRGGBB" and the 256-color terminal codes the
// monochrome theme uses. Only the grayscale ramp (232-255) and the first
// sixteen codes are understood.
func parseColor(s string) (color.Color, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return nil, false
		}
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return nil, false
	}
	switch {
	case n >= 232:
		g := uint8(8 + (n-232)*10)
		return color.NRGBA{R: g, G: g, B: g, A: 0xff}, true
	case n < 16:
		return ansi16[n], true
	}
	return nil, false
}

var ansi16 = [16]color.NRGBA{
	{0x00, 0x00, 0x00, 0xff}, {0x80, 0x00, 0x00, 0xff}, {0x00, 0x80, 0x00, 0xff}, {0x80, 0x80, 0x00, 0xff},
	{0x00, 0x00, 0x80, 0xff}, {0x80, 0x00, 0x80, 0xff}, {0x00, 0x80, 0x80, 0xff}, {0xc0, 0xc0, 0xc0, 0xff},
	{0x80, 0x80, 0x80, 0xff}, {0xff, 0x00, 0x00, 0xff}, {0x00, 0xff, 0x00, 0xff}, {0xff, 0xff, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff}, {0xff, 0x00, 0xff, 0xff}, {0x00, 0xff, 0xff, 0xff}, {0xff, 0xff, 0xff, 0xff},
}
