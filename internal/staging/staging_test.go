package staging

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndTeardown(t *testing.T) {
	base := t.TempDir()
	s, err := New(WithBaseDir(base))
	require.NoError(t, err)

	assert.DirExists(t, s.Root())
	assert.Equal(t, base, filepath.Dir(s.Root()))
	assert.True(t, strings.HasPrefix(filepath.Base(s.Root()), DefaultPrefix))

	// Contents go away with the directory
	out := s.NewOutputPath()
	require.NoError(t, os.WriteFile(out, []byte("png"), 0o644))

	require.NoError(t, s.Teardown())
	assert.NoDirExists(t, s.Root())

	// Second teardown is a no-op
	require.NoError(t, s.Teardown())

	var nilStaging *Staging
	assert.NoError(t, nilStaging.Teardown())
}

func TestNewOutputPath(t *testing.T) {
	s, err := New(WithBaseDir(t.TempDir()), WithPrefix("test-"))
	require.NoError(t, err)
	defer s.Teardown()

	pattern := regexp.MustCompile(`^nordified[a-zA-Z0-9]{3}\.png$`)
	for i := 0; i < 20; i++ {
		p := s.NewOutputPath()
		assert.Equal(t, s.Root(), filepath.Dir(p))
		assert.Regexp(t, pattern, filepath.Base(p))
	}
}

func TestSuffixLengthAndRand(t *testing.T) {
	calls := 0
	fixed := func(n int) int {
		calls++
		return n - 1
	}
	s, err := New(WithBaseDir(t.TempDir()), WithSuffixLength(5), WithRand(fixed))
	require.NoError(t, err)
	defer s.Teardown()

	assert.Equal(t, "nordified99999.png", filepath.Base(s.NewOutputPath()))
	assert.Equal(t, 5, calls)

	// The same suffix repeats; no collision check is made
	assert.Equal(t, s.NewOutputPath(), s.NewOutputPath())
}

func TestNewFailure(t *testing.T) {
	_, err := New(WithBaseDir(filepath.Join(t.TempDir(), "missing", "deeper")))
	assert.Error(t, err)
}
