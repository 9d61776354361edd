package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nordify/internal/config"
	"nordify/internal/history"
	"nordify/pkg/testutils"
)

// execute runs the root command against a config file in a temp dir, so the
// user's own config is never read.
func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	if cfgPath == "" {
		cfgPath = filepath.Join(t.TempDir(), "config.yaml")
	}

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLs(t *testing.T) {
	dir := testutils.BrowseFixture(t)

	out, err := execute(t, "", "ls", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Desktop/")
	assert.Contains(t, lines[1], "a.png")
	assert.Contains(t, lines[2], "b.txt")
	assert.NotContains(t, out, ".hidden")
}

func TestLsJSON(t *testing.T) {
	dir := testutils.BrowseFixture(t)

	out, err := execute(t, "", "ls", "--json", "--filter", "png", dir)
	require.NoError(t, err)

	var rows []lsEntry
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "a.png", rows[0].Name)
	assert.Equal(t, 1, rows[0].Ordinal)
	assert.Equal(t, "image", rows[0].Kind)
}

func TestLsMissingDirectory(t *testing.T) {
	_, err := execute(t, "", "ls", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	dir := testutils.BrowseFixture(t)
	output := filepath.Join(t.TempDir(), "out.png")

	out, err := execute(t, "", "render", filepath.Join(dir, "a.png"), output, "--mode", "knn", "--k", "4", "--max-dimension", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "knn k=4")

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)
}

func TestRenderRejects(t *testing.T) {
	input := filepath.Join(testutils.BrowseFixture(t), "a.png")
	outDir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown mode", []string{input, filepath.Join(outDir, "x.png"), "--mode", "sepia"}},
		{"zero k", []string{input, filepath.Join(outDir, "x.png"), "--k", "0"}},
		{"output not an image", []string{input, filepath.Join(outDir, "x.txt")}},
		{"missing input", []string{filepath.Join(outDir, "none.png"), filepath.Join(outDir, "x.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"render"}, tt.args...)...)
			assert.Error(t, err)
		})
	}
	assert.NoFileExists(t, filepath.Join(outDir, "x.png"))
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nordify", "config.yaml")

	out, err := execute(t, path, "config", "init", "--theme", "snowstorm")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "snowstorm", cfg.Theme.Name)

	_, err = execute(t, path, "config", "init")
	assert.Error(t, err, "existing file needs --force")
	_, err = execute(t, path, "config", "init", "--force")
	assert.NoError(t, err)

	_, err = execute(t, path, "config", "init", "--force", "--theme", "neon")
	assert.Error(t, err)
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_mode: default")
	assert.Contains(t, out, "output_suffix: _nordified")
}

func TestInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transform:\n  default_mode: sepia\n"), 0o644))

	_, err := execute(t, path, "ls", t.TempDir())
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "history.db")
	cfgPath := filepath.Join(tmp, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history:\n  path: "+dbPath+"\n"), 0o644))

	kept := t.TempDir()
	gone := filepath.Join(tmp, "gone")
	require.NoError(t, os.Mkdir(gone, 0o755))

	store, err := history.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Record(gone))
	time.Sleep(time.Millisecond)
	require.NoError(t, store.Record(kept))
	require.NoError(t, store.Close())
	require.NoError(t, os.Remove(gone))

	out, err := execute(t, cfgPath, "history", "--recent")
	require.NoError(t, err)
	require.Contains(t, out, kept)
	require.Contains(t, out, gone)
	assert.Less(t, strings.Index(out, kept), strings.Index(out, gone))

	out, err = execute(t, cfgPath, "history", "--prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned 1 missing directory")
	assert.NotContains(t, out, gone)
	assert.Contains(t, out, kept)

	out, err = execute(t, cfgPath, "history", "--forget", kept)
	require.NoError(t, err)
	assert.Contains(t, out, "No directories visited yet.")
}
