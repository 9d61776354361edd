// Package mapper recolors images into the Nord palette.
//
// A Mapper turns one source color into one palette-derived color. Process
// applies a Mapper to every pixel; Transform reads, recolors and writes a
// file in one call.
package mapper

import (
	"fmt"
	"image/color"
)

// Palette is an ordered set of target colors.
type Palette []color.NRGBA

// Nord is the 16-color Nord palette, nord0 through nord15.
var Nord = Palette{
	mustHex("#2E3440"), // nord0  polar night
	mustHex("#3B4252"), // nord1
	mustHex("#434C5E"), // nord2
	mustHex("#4C566A"), // nord3
	mustHex("#D8DEE9"), // nord4  snow storm
	mustHex("#E5E9F0"), // nord5
	mustHex("#ECEFF4"), // nord6
	mustHex("#8FBCBB"), // nord7  frost
	mustHex("#88C0D0"), // nord8
	mustHex("#81A1C1"), // nord9
	mustHex("#5E81AC"), // nord10
	mustHex("#BF616A"), // nord11 aurora
	mustHex("#D08770"), // nord12
	mustHex("#EBCB8B"), // nord13
	mustHex("#A3BE8C"), // nord14
	mustHex("#B48EAD"), // nord15
}

// ParseHex parses "#RRGGBB" into an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func mustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// distance is the squared euclidean distance in RGB.
func distance(a, b color.NRGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// luma is the Rec. 601 brightness of c.
func luma(c color.NRGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
