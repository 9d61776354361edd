// Package navigate owns the browsing state: the current directory, the
// address text, the listing and the global selection.
package navigate

import (
	"os"
	"path/filepath"

	"nordify/internal/browse"
	"nordify/internal/config"
	"nordify/internal/errors"
	"nordify/internal/log"
	"nordify/pkg/types"
)

// AnyGeneration disables the generation check of ClickEntry.
const AnyGeneration uint64 = 0

// Lister produces the listing of a directory.
type Lister func(dir string) ([]types.DirectoryEntry, error)

// Controller is the navigation state machine. It is not safe for concurrent
// use; the session serializes every call.
type Controller struct {
	currentDir  string
	addressText string
	entries     []types.DirectoryEntry
	generation  uint64
	selection   string

	list   Lister
	logger *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLister replaces browse.Build.
func WithLister(l Lister) Option {
	return func(c *Controller) { c.list = l }
}

// WithLogger sets the logger used for navigation entries.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller listing the first candidate directory that can be
// read. Candidates that are empty or unreadable are skipped.
func New(candidates []string, opts ...Option) (*Controller, error) {
	c := &Controller{list: browse.Build, logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}

	var lastErr error
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		dir = normalize(dir, "")
		entries, err := c.list(dir)
		if err != nil {
			c.logger.With(log.F("dir", dir)).WithError(err).Warn("start directory unavailable")
			lastErr = err
			continue
		}
		c.currentDir = dir
		c.addressText = dir
		c.install(entries)
		return c, nil
	}

	if lastErr == nil {
		lastErr = errors.NewFileError("no start directory", "", errors.InvalidPath, nil)
	}
	return nil, lastErr
}

// StartCandidates lists where browsing may begin, in order of preference:
// the configured directory, the user's home, the working directory and the
// filesystem root.
func StartCandidates(configured string) []string {
	var out []string
	if configured != "" {
		out = append(out, config.ExpandHome(configured))
	}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, home)
	}
	if wd, err := os.Getwd(); err == nil {
		out = append(out, wd)
	}
	return append(out, string(filepath.Separator))
}

// CurrentDir returns the listed directory.
func (c *Controller) CurrentDir() string { return c.currentDir }

// AddressText returns the text shown in the address bar.
func (c *Controller) AddressText() string { return c.addressText }

// Generation counts listings; it changes every time the index is rebuilt.
func (c *Controller) Generation() uint64 { return c.generation }

// Selection returns the global selection, or "".
func (c *Controller) Selection() string { return c.selection }

// Entries returns a copy of the current listing.
func (c *Controller) Entries() []types.DirectoryEntry {
	out := make([]types.DirectoryEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Submit navigates to text when it names a directory. Anything else leaves
// the state untouched and returns an InvalidNavigationTarget input error.
func (c *Controller) Submit(text string) ([]types.Event, error) {
	if text == "" {
		return nil, errors.NewInvalidInputError("empty address", errors.InvalidNavigationTarget, nil)
	}

	dir := normalize(text, c.currentDir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.NewInvalidInputError("not a directory", errors.InvalidNavigationTarget, err).
			WithContext("text", text)
	}

	return c.moveTo(dir)
}

// ClickEntry acts on the entry at ordinal. generation must be the listing the
// ordinal was taken from, or AnyGeneration. A click that no longer matches
// what is on disk rebuilds the listing and fails with StaleOrdinal.
func (c *Controller) ClickEntry(ordinal int, generation uint64) ([]types.Event, error) {
	if generation != AnyGeneration && generation != c.generation {
		return c.stale(ordinal, "listing was rebuilt")
	}
	if ordinal < 0 || ordinal >= len(c.entries) {
		return c.stale(ordinal, "no entry at ordinal")
	}

	entry := c.entries[ordinal]
	kind, err := browse.KindOf(entry.FullPath)
	if err != nil || kind != entry.Kind {
		return c.stale(ordinal, "entry changed on disk")
	}

	switch entry.Kind {
	case types.Directory:
		return c.Submit(entry.FullPath)
	case types.Image:
		return c.selectEntry(ordinal), nil
	default:
		// Generic entries ignore clicks
		return nil, nil
	}
}

// DirUp lists the parent directory. At the filesystem root it does nothing.
func (c *Controller) DirUp() ([]types.Event, error) {
	parent := filepath.Dir(c.currentDir)
	if parent == c.currentDir {
		return nil, nil
	}
	return c.moveTo(parent)
}

// Refresh rebuilds the listing of the current directory.
func (c *Controller) Refresh() ([]types.Event, error) {
	entries, err := c.list(c.currentDir)
	if err != nil {
		return nil, err
	}
	c.install(entries)
	return []types.Event{types.IndexRefreshed{Dir: c.currentDir, Generation: c.generation}}, nil
}

// DeleteSelected removes the selected file, clears the selection and
// rebuilds the listing. The deletion cannot be undone.
func (c *Controller) DeleteSelected() ([]types.Event, error) {
	path := c.selection
	if path == "" {
		return nil, errors.NewInvalidInputError("no image selected", errors.NoSelection, nil)
	}

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewDeleteMissingError(path, err)
		}
		return nil, errors.NewFileError("cannot delete", path, errors.DeleteFailed, err)
	}
	if info.IsDir() {
		return nil, errors.NewFileError("refusing to delete a directory", path, errors.DeleteFailed, nil)
	}
	if err := os.Remove(path); err != nil {
		return nil, errors.NewFileError("cannot delete", path, errors.DeleteFailed, err)
	}

	c.logger.With(log.F("path", path)).Info("deleted selected file")
	c.setSelection("")
	events := []types.Event{types.SelectionChanged{Path: ""}, types.Deleted{Path: path}}

	refreshed, err := c.Refresh()
	return append(events, refreshed...), err
}

func (c *Controller) moveTo(dir string) ([]types.Event, error) {
	entries, err := c.list(dir)
	if err != nil {
		return nil, err
	}

	c.currentDir = dir
	c.addressText = dir
	c.install(entries)
	c.logger.With(log.F("dir", dir), log.F("entries", len(entries))).Debug("directory changed")

	return []types.Event{
		types.DirectoryChanged{Dir: dir},
		types.IndexRefreshed{Dir: dir, Generation: c.generation},
	}, nil
}

func (c *Controller) selectEntry(ordinal int) []types.Event {
	c.setSelection(c.entries[ordinal].FullPath)
	return []types.Event{types.SelectionChanged{Path: c.selection}}
}

func (c *Controller) setSelection(path string) {
	c.selection = path
	for i := range c.entries {
		c.entries[i].Selected = path != "" && c.entries[i].FullPath == path
	}
}

func (c *Controller) install(entries []types.DirectoryEntry) {
	c.entries = entries
	c.generation++
	c.setSelection(c.selection)
}

func (c *Controller) stale(ordinal int, reason string) ([]types.Event, error) {
	staleErr := errors.NewFileError("stale click: "+reason, c.currentDir, errors.StaleOrdinal, nil)
	c.logger.With(log.F("ordinal", ordinal), log.F("generation", c.generation)).WithError(staleErr).Warn("rebuilding listing")

	events, err := c.Refresh()
	if err != nil {
		return nil, err
	}
	return events, staleErr
}

// normalize expands "~", resolves text relative to base and drops any
// trailing separator. Text is otherwise taken literally.
func normalize(text, base string) string {
	path := config.ExpandHome(text)
	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	} else if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}
