package history

import (
	"path/filepath"
	"testing"
	"time"

	"nordify/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"), WithClock(c.now))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, c
}

func TestRecordAndRecent(t *testing.T) {
	s, c := newTestStore(t)

	require.NoError(t, s.Record("/a"))
	c.advance(time.Minute)
	require.NoError(t, s.Record("/b"))
	c.advance(time.Minute)
	require.NoError(t, s.Record("/a"))

	visits, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, "/a", visits[0].Path)
	assert.Equal(t, 2, visits[0].Frequency)
	assert.Equal(t, c.t.UnixNano(), visits[0].LastVisited.UnixNano())
	assert.Equal(t, "/b", visits[1].Path)
	assert.Equal(t, 1, visits[1].Frequency)

	visits, err = s.Recent(1)
	require.NoError(t, err)
	assert.Len(t, visits, 1)
}

func TestFrecent(t *testing.T) {
	s, c := newTestStore(t)

	// Visited often but long ago
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record("/old"))
	}
	c.advance(30 * 24 * time.Hour)
	require.NoError(t, s.Record("/new"))
	require.NoError(t, s.Record("/new"))

	visits, err := s.Frecent(10)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, "/new", visits[0].Path)
}

func TestForgetAndPrune(t *testing.T) {
	s, _ := newTestStore(t)
	live := t.TempDir()

	require.NoError(t, s.Record(live))
	require.NoError(t, s.Record(filepath.Join(live, "gone")))
	require.NoError(t, s.Record("/x"))

	require.NoError(t, s.Forget("/x"))
	removed, err := s.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	visits, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, live, visits[0].Path)
}

func TestInMemoryAndClose(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	require.NoError(t, s.Record("/tmp"))
	visits, err := s.Recent(5)
	require.NoError(t, err)
	assert.Len(t, visits, 1)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err = s.Record("/tmp")
	require.Error(t, err)
	assert.True(t, errors.IsDatabaseError(err))

	var dbErr *errors.DatabaseError
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, "record", dbErr.Operation())

	_, err = s.Recent(1)
	assert.True(t, errors.IsDatabaseError(err))
}
