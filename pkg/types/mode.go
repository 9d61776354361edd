package types

import (
	"fmt"
	"strings"
)

// Mode selects the color-mapping strategy used for a render.
type Mode int

const (
	// Default maps every pixel to its nearest palette color.
	Default Mode = iota
	// Creative matches on chroma and keeps the source shading.
	Creative
	// Knn blends the k nearest palette colors.
	Knn

	// NumModes is the number of modes. Tables indexed by Mode use it as length.
	NumModes
)

// DefaultK is the neighbor count used until the user picks another.
const DefaultK uint8 = 32

var modeNames = [NumModes]string{
	Default:  "default",
	Creative: "creative",
	Knn:      "knn",
}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < NumModes
}

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return Default, fmt.Errorf("unknown mode %q (want default, creative or knn)", s)
}

// Modes lists every mode in display order.
func Modes() []Mode {
	modes := make([]Mode, 0, NumModes)
	for m := Mode(0); m < NumModes; m++ {
		modes = append(modes, m)
	}
	return modes
}
