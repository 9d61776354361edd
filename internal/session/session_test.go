package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"nordify/internal/config"
	"nordify/internal/errors"
	"nordify/internal/history"
	"nordify/pkg/testutils"
	"nordify/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSession(t *testing.T, cfg *config.Config, opts ...Option) *Session {
	t.Helper()
	s, err := Open(cfg, append([]Option{WithStagingBase(t.TempDir())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func names(entries []types.DirectoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestOpen(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	s := openSession(t, config.NewTestConfig(dir))

	st := s.State()
	assert.Equal(t, dir, st.CurrentDir)
	assert.Equal(t, dir, st.AddressText)
	assert.Equal(t, []string{"Desktop", "a.png", "b.txt"}, names(st.Entries))
	assert.Equal(t, types.Default, st.Mode)
	assert.Equal(t, uint8(32), st.K)
	assert.Empty(t, st.Selection)
	assert.NotEmpty(t, st.SessionID)
	assert.Equal(t, s.ID(), st.SessionID)
}

func TestOpenUsesConfiguredDefaults(t *testing.T) {
	cfg := config.NewTestConfig(testutils.BrowseFixture(t))
	cfg.Transform.DefaultMode = "knn"
	cfg.Transform.DefaultK = 8

	s := openSession(t, cfg)
	st := s.State()
	assert.Equal(t, types.Knn, st.Mode)
	assert.Equal(t, uint8(8), st.K)
}

func TestSelectPreviewSave(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	s := openSession(t, config.NewTestConfig(dir))

	// Click a.png at ordinal 1
	events, err := s.Dispatch(ClickEntry{Ordinal: 1, Generation: s.State().Generation})
	require.NoError(t, err)
	assert.Equal(t, []types.Event{types.SelectionChanged{Path: filepath.Join(dir, "a.png")}}, events)

	st := s.State()
	assert.Equal(t, filepath.Join(dir, "a.png"), st.Selection)
	assert.True(t, st.Entries[1].Selected)
	require.NotNil(t, st.SelectionInfo)
	assert.Equal(t, "image/png", st.SelectionInfo.MimeType)
	assert.Equal(t, "6x4", st.SelectionInfo.Dimensions())

	_, err = s.Dispatch(Reset{})
	require.NoError(t, err)
	assert.Equal(t, "a_nordified.png", s.State().Filename)
	assert.True(t, s.State().FilenameValid)

	_, err = s.Dispatch(Preview{})
	require.NoError(t, err)
	st = s.State()
	assert.FileExists(t, st.PreviewPath)
	assert.NotEqual(t, dir, filepath.Dir(st.PreviewPath))

	events, err = s.Dispatch(Save{})
	require.NoError(t, err)
	dest := filepath.Join(dir, "a_nordified.png")
	require.NotEmpty(t, events)
	assert.Equal(t, types.Saved{Path: dest}, events[0])
	assert.IsType(t, types.IndexRefreshed{}, events[1])

	st = s.State()
	assert.Equal(t, []string{"Desktop", "a.png", "a_nordified.png", "b.txt"}, names(st.Entries))
	assert.Equal(t, "saved "+dest, st.Notice)
	assert.True(t, st.Entries[1].Selected, "selection survives the refresh")

	_, err = s.Dispatch(Save{})
	require.NoError(t, err)
	assert.Equal(t, "overwrote "+dest, s.State().Notice)
}

func TestNoOpsBecomeNotices(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	s := openSession(t, config.NewTestConfig(dir))
	before := s.State()

	_, err := s.Dispatch(Submit{Text: filepath.Join(dir, "b.txt")})
	assert.Equal(t, errors.InvalidNavigationTarget, errors.KindOf(err))
	st := s.State()
	assert.Equal(t, before.CurrentDir, st.CurrentDir)
	assert.Equal(t, before.Generation, st.Generation)
	assert.NotEmpty(t, st.Notice)
	assert.NoError(t, st.LastError)

	_, err = s.Dispatch(Preview{})
	assert.Equal(t, errors.NoSelection, errors.KindOf(err))
	assert.Empty(t, s.State().PreviewPath)

	// Invalid filename leaves the directory untouched
	_, err = s.Dispatch(ClickEntry{Ordinal: 1})
	require.NoError(t, err)
	_, err = s.Dispatch(SetFilename{Name: "out/a.png"})
	require.NoError(t, err)
	assert.False(t, s.State().FilenameValid)
	_, err = s.Dispatch(Save{})
	assert.Equal(t, errors.InvalidFilename, errors.KindOf(err))
	assert.Equal(t, []string{"Desktop", "a.png", "b.txt"}, names(s.State().Entries))

	// Next command clears the notice
	_, err = s.Dispatch(Refresh{})
	require.NoError(t, err)
	assert.Empty(t, s.State().Notice)
}

func TestKnnText(t *testing.T) {
	s := openSession(t, config.NewTestConfig(testutils.BrowseFixture(t)))

	_, err := s.Dispatch(SetMode{Mode: types.Knn})
	require.NoError(t, err)
	_, err = s.Dispatch(SetKText{Text: "10"})
	require.NoError(t, err)
	assert.Equal(t, uint8(10), s.State().K)

	_, err = s.Dispatch(SetKText{Text: "abc"})
	assert.Equal(t, errors.InvalidKValue, errors.KindOf(err))
	assert.Equal(t, uint8(10), s.State().K)
	assert.Equal(t, types.Knn, s.State().Mode)

	_, err = s.Dispatch(SetK{K: 200})
	require.NoError(t, err)
	assert.Equal(t, uint8(200), s.State().K)
}

func TestNavigation(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	s := openSession(t, config.NewTestConfig(dir))

	events, err := s.Dispatch(ClickEntry{Ordinal: 0})
	require.NoError(t, err)
	desktop := filepath.Join(dir, "Desktop")
	assert.Equal(t, types.DirectoryChanged{Dir: desktop}, events[0])
	assert.Equal(t, desktop, s.State().CurrentDir)
	assert.Empty(t, s.State().Entries)

	_, err = s.Dispatch(DirUp{})
	require.NoError(t, err)
	assert.Equal(t, dir, s.State().AddressText)

	// Generic entries ignore clicks
	gen := s.State().Generation
	events, err = s.Dispatch(ClickEntry{Ordinal: 2, Generation: gen})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, s.State().Selection)
}

func TestStaleClick(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	s := openSession(t, config.NewTestConfig(dir))
	gen := s.State().Generation

	require.NoError(t, os.Remove(filepath.Join(dir, "a.png")))
	_, err := s.Dispatch(ClickEntry{Ordinal: 1, Generation: gen})
	require.Error(t, err)
	assert.True(t, errors.IsStaleOrdinal(err))

	st := s.State()
	assert.Equal(t, st.LastError, err)
	assert.Empty(t, st.Selection)
	assert.Greater(t, st.Generation, gen)
	assert.Equal(t, []string{"Desktop", "b.txt"}, names(st.Entries))
}

func TestDeleteSelected(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	s := openSession(t, config.NewTestConfig(dir))
	target := filepath.Join(dir, "a.png")

	_, err := s.Dispatch(ClickEntry{Ordinal: 1})
	require.NoError(t, err)

	events, err := s.Dispatch(DeleteSelected{})
	require.NoError(t, err)
	assert.Contains(t, events, types.Deleted{Path: target})
	assert.NoFileExists(t, target)

	st := s.State()
	assert.Empty(t, st.Selection)
	assert.Nil(t, st.SelectionInfo)
	assert.Equal(t, "deleted "+target, st.Notice)
	assert.Equal(t, []string{"Desktop", "b.txt"}, names(st.Entries))

	_, err = s.Dispatch(DeleteSelected{})
	assert.Equal(t, errors.NoSelection, errors.KindOf(err))
}

func TestDeleteMissingIsRecorded(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	s := openSession(t, config.NewTestConfig(dir))

	_, err := s.Dispatch(ClickEntry{Ordinal: 1})
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "a.png")))

	_, err = s.Dispatch(DeleteSelected{})
	require.Error(t, err)
	assert.True(t, errors.IsDeleteError(err))
	assert.Equal(t, err, s.State().LastError)
	assert.Equal(t, filepath.Join(dir, "a.png"), s.State().Selection)
}

func TestTransformFailureIsRecorded(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0o644))
	s := openSession(t, config.NewTestConfig(dir))

	// broken.png sorts after b.txt
	_, err := s.Dispatch(ClickEntry{Ordinal: 3})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "broken.png"), s.State().Selection)

	_, err = s.Dispatch(Preview{})
	require.Error(t, err)
	assert.True(t, errors.IsTransformError(err))
	st := s.State()
	assert.Equal(t, err, st.LastError)
	assert.Empty(t, st.PreviewPath)
}

func TestSyncWithWatcher(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	cfg := config.NewTestConfig(dir)
	cfg.Watch.Enabled = true
	s := openSession(t, cfg)

	events, err := s.Dispatch(Sync{})
	require.NoError(t, err)
	assert.Empty(t, events)

	testutils.WritePNG(t, filepath.Join(dir, "c.png"), 2, 2)
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		events, err = s.Dispatch(Sync{})
		require.NoError(t, err)
		if len(events) > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	assert.Contains(t, names(s.State().Entries), "c.png")
}

func TestHistory(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	cfg := config.NewTestConfig(dir)
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	s := openSession(t, cfg, WithHistoryOptions(history.WithClock(clock)))

	_, err := s.Dispatch(Submit{Text: filepath.Join(dir, "Desktop")})
	require.NoError(t, err)
	_, err = s.Dispatch(DirUp{})
	require.NoError(t, err)

	visits, err := s.Recent()
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, dir, visits[0].Path)
	assert.Equal(t, 2, visits[0].Frequency)
}

func TestHistoryDisabled(t *testing.T) {
	s := openSession(t, config.NewTestConfig(testutils.BrowseFixture(t)))
	visits, err := s.Recent()
	require.NoError(t, err)
	assert.Empty(t, visits)
}

func TestClose(t *testing.T) {
	s, err := Open(config.NewTestConfig(testutils.BrowseFixture(t)), WithStagingBase(t.TempDir()))
	require.NoError(t, err)

	_, err = s.Dispatch(ClickEntry{Ordinal: 1})
	require.NoError(t, err)
	_, err = s.Dispatch(Preview{})
	require.NoError(t, err)
	preview := s.State().PreviewPath
	require.FileExists(t, preview)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.NoDirExists(t, filepath.Dir(preview))

	_, err = s.Dispatch(Refresh{})
	assert.Error(t, err)
}

func TestOpenFailureReleasesStaging(t *testing.T) {
	base := t.TempDir()
	failing := func(string) ([]types.DirectoryEntry, error) {
		return nil, errors.NewFileError("cannot list", "", errors.ListingFailed, nil)
	}

	s, err := Open(config.NewTestConfig(t.TempDir()), WithStagingBase(base), WithLister(failing))
	require.Error(t, err)
	assert.Nil(t, s)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
