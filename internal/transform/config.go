// Package transform holds the render settings chosen by the user: mode,
// neighbor count and the output filename.
package transform

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nordify/internal/browse"
	"nordify/internal/errors"
	"nordify/pkg/types"
)

// DefaultSuffix is appended to the base name of a suggested filename.
const DefaultSuffix = "_nordified"

// Defaults are the values Reset restores.
type Defaults struct {
	Mode   types.Mode
	K      uint8
	Suffix string
}

// StandardDefaults returns Default mode, k=32 and the _nordified suffix.
func StandardDefaults() Defaults {
	return Defaults{Mode: types.Default, K: types.DefaultK, Suffix: DefaultSuffix}
}

// Config is a plain state holder. The neighbor count survives mode changes
// so switching back to Knn restores it.
type Config struct {
	mode     types.Mode
	k        uint8
	filename string
	defaults Defaults
}

// New creates a Config at its defaults.
func New(d Defaults) *Config {
	if !d.Mode.Valid() {
		d.Mode = types.Default
	}
	if d.K == 0 {
		d.K = types.DefaultK
	}
	if d.Suffix == "" {
		d.Suffix = DefaultSuffix
	}
	c := &Config{defaults: d}
	c.Reset("")
	return c
}

func (c *Config) Mode() types.Mode   { return c.mode }
func (c *Config) K() uint8           { return c.k }
func (c *Config) Filename() string   { return c.filename }
func (c *Config) Defaults() Defaults { return c.defaults }

// SetMode switches the mode. Undefined modes are rejected.
func (c *Config) SetMode(m types.Mode) error {
	if !m.Valid() {
		return errors.NewInvalidInputError("unknown mode", errors.Unknown, nil).WithContext("mode", int(m))
	}
	c.mode = m
	return nil
}

// SetK sets the neighbor count. Zero is rejected and leaves k unchanged.
func (c *Config) SetK(k uint8) error {
	if k == 0 {
		return errors.NewInvalidInputError("k must be between 1 and 255", errors.InvalidKValue, nil)
	}
	c.k = k
	return nil
}

// SetKText parses text as a neighbor count. Text that does not parse as a
// number in 1..255 is ignored and k keeps its value.
func (c *Config) SetKText(text string) error {
	v, err := strconv.ParseUint(text, 10, 8)
	if err != nil {
		return errors.NewInvalidInputError("k must be a number between 1 and 255", errors.InvalidKValue, err).
			WithContext("text", text)
	}
	return c.SetK(uint8(v))
}

// SetFilename stores text as is. Validity is checked when it is read.
func (c *Config) SetFilename(text string) {
	c.filename = text
}

// Valid reports whether the stored filename can be saved to.
func (c *Config) Valid() bool {
	return ValidateFilename(c.filename) == nil
}

// Reset restores the default mode and k. The filename becomes the suggestion
// for selection, or empty without one.
func (c *Config) Reset(selection string) {
	c.mode = c.defaults.Mode
	c.k = c.defaults.K
	c.filename = ""
	if selection != "" {
		c.filename = SuggestFilename(selection, c.defaults.Suffix)
	}
}

// SuggestFilename returns "<base>_nordified.png" for /dir/<base>.<ext>.
func SuggestFilename(selection, suffix string) string {
	base := filepath.Base(selection)
	return strings.TrimSuffix(base, filepath.Ext(base)) + suffix + ".png"
}

// ValidateFilename accepts a non-empty bare file name with a recognized image
// extension. Hidden names are refused since the listing would never show them.
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return invalidFilename(name, "filename is empty")
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, os.PathSeparator):
		return invalidFilename(name, "filename contains a path separator")
	case strings.HasPrefix(name, browse.HiddenPrefix):
		return invalidFilename(name, "filename is hidden")
	case !browse.IsImageName(name):
		return invalidFilename(name, "filename needs an image extension")
	}
	return nil
}

func invalidFilename(name, msg string) error {
	return errors.NewInvalidInputError(msg, errors.InvalidFilename, nil).WithContext("filename", name)
}
