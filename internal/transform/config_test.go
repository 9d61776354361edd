package transform

import (
	"testing"

	"nordify/internal/errors"
	"nordify/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c := New(StandardDefaults())
	assert.Equal(t, types.Default, c.Mode())
	assert.Equal(t, uint8(32), c.K())
	assert.Empty(t, c.Filename())
	assert.False(t, c.Valid())

	// Zero values fall back to the standard defaults
	c = New(Defaults{Mode: types.Mode(42)})
	assert.Equal(t, StandardDefaults(), c.Defaults())
}

func TestSetMode(t *testing.T) {
	c := New(StandardDefaults())
	require.NoError(t, c.SetK(10))

	for _, m := range types.Modes() {
		require.NoError(t, c.SetMode(m))
		assert.Equal(t, m, c.Mode())
	}

	// k is retained across mode switches
	require.NoError(t, c.SetMode(types.Creative))
	require.NoError(t, c.SetMode(types.Knn))
	assert.Equal(t, uint8(10), c.K())

	assert.Error(t, c.SetMode(types.NumModes))
	assert.Equal(t, types.Knn, c.Mode())
}

func TestSetK(t *testing.T) {
	c := New(StandardDefaults())

	require.NoError(t, c.SetK(255))
	assert.Equal(t, uint8(255), c.K())

	err := c.SetK(0)
	assert.Equal(t, errors.InvalidKValue, errors.KindOf(err))
	assert.Equal(t, uint8(255), c.K())
}

func TestSetKText(t *testing.T) {
	tests := []struct {
		text  string
		want  uint8
		valid bool
	}{
		{"10", 10, true},
		{"1", 1, true},
		{"255", 255, true},
		{"abc", 32, false},
		{"", 32, false},
		{"0", 32, false},
		{"256", 32, false},
		{"-1", 32, false},
		{" 10", 32, false},
		{"1.5", 32, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c := New(StandardDefaults())
			err := c.SetKText(tt.text)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidInput(err))
			}
			assert.Equal(t, tt.want, c.K())
		})
	}
}

func TestKnnScenario(t *testing.T) {
	c := New(StandardDefaults())
	require.NoError(t, c.SetMode(types.Knn))
	require.NoError(t, c.SetKText("10"))
	assert.Equal(t, uint8(10), c.K())

	assert.Error(t, c.SetKText("abc"))
	assert.Equal(t, uint8(10), c.K())
}

func TestFilenameValidity(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"a_nordified.png", true},
		{"A.JPG", true},
		{"x.jpeg", true},
		{"x.bmp", true},
		{"x.svg", true},
		{"", false},
		{"out/a.png", false},
		{"a.gif", false},
		{"noext", false},
		{".png", false},
		{".a.png", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(StandardDefaults())
			c.SetFilename(tt.name)
			assert.Equal(t, tt.name, c.Filename(), "stored unconditionally")
			assert.Equal(t, tt.valid, c.Valid())

			err := ValidateFilename(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, errors.InvalidFilename, errors.KindOf(err))
			}
		})
	}
}

func TestReset(t *testing.T) {
	c := New(StandardDefaults())
	require.NoError(t, c.SetMode(types.Creative))
	require.NoError(t, c.SetK(3))
	c.SetFilename("custom.png")

	c.Reset("/pics/holiday.photo.jpeg")
	assert.Equal(t, types.Default, c.Mode())
	assert.Equal(t, uint8(32), c.K())
	assert.Equal(t, "holiday.photo_nordified.png", c.Filename())
	assert.True(t, c.Valid())

	c.Reset("")
	assert.Empty(t, c.Filename())
}

func TestResetCustomDefaults(t *testing.T) {
	c := New(Defaults{Mode: types.Knn, K: 8, Suffix: "_nord"})
	require.NoError(t, c.SetMode(types.Default))

	c.Reset("/x/a.png")
	assert.Equal(t, types.Knn, c.Mode())
	assert.Equal(t, uint8(8), c.K())
	assert.Equal(t, "a_nord.png", c.Filename())
}

func TestSuggestFilename(t *testing.T) {
	assert.Equal(t, "a_nordified.png", SuggestFilename("/dir/a.png", DefaultSuffix))
	assert.Equal(t, "noext_nordified.png", SuggestFilename("/dir/noext", DefaultSuffix))
	assert.Equal(t, "b_nordified.png", SuggestFilename("b.svg", DefaultSuffix))
}
