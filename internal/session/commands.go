package session

import (
	"fmt"

	"nordify/pkg/types"
)

// Command is one user action. Dispatch runs exactly one at a time.
type Command interface {
	fmt.Stringer
	run(s *Session) ([]types.Event, error)
}

// Submit navigates to the address bar text.
type Submit struct{ Text string }

// ClickEntry activates the entry at Ordinal of the listing with Generation.
// A zero Generation skips the generation check.
type ClickEntry struct {
	Ordinal    int
	Generation uint64
}

// DirUp lists the parent directory.
type DirUp struct{}

// DeleteSelected removes the selected image from disk.
type DeleteSelected struct{}

// Refresh rebuilds the listing of the current directory.
type Refresh struct{}

// Sync refreshes the listing when the watcher saw a change.
type Sync struct{}

// Preview renders the selection into the staging directory.
type Preview struct{}

// Save renders the selection into the current directory.
type Save struct{}

// Reset restores the default transform settings.
type Reset struct{}

// SetMode picks the color-mapping mode.
type SetMode struct{ Mode types.Mode }

// SetK sets the Knn neighbor count.
type SetK struct{ K uint8 }

// SetKText sets the neighbor count from text; unparsable text is ignored.
type SetKText struct{ Text string }

// SetFilename sets the output filename used by Save.
type SetFilename struct{ Name string }

func (c Submit) String() string         { return "submit" }
func (c ClickEntry) String() string     { return "click_entry" }
func (c DirUp) String() string          { return "dir_up" }
func (c DeleteSelected) String() string { return "delete_selected" }
func (c Refresh) String() string        { return "refresh" }
func (c Sync) String() string           { return "sync" }
func (c Preview) String() string        { return "preview" }
func (c Save) String() string           { return "save" }
func (c Reset) String() string          { return "reset" }
func (c SetMode) String() string        { return "set_mode" }
func (c SetK) String() string           { return "set_k" }
func (c SetKText) String() string       { return "set_k_text" }
func (c SetFilename) String() string    { return "set_filename" }

func (c Submit) run(s *Session) ([]types.Event, error) { return s.nav.Submit(c.Text) }

func (c ClickEntry) run(s *Session) ([]types.Event, error) {
	return s.nav.ClickEntry(c.Ordinal, c.Generation)
}

func (c DirUp) run(s *Session) ([]types.Event, error)          { return s.nav.DirUp() }
func (c DeleteSelected) run(s *Session) ([]types.Event, error) { return s.nav.DeleteSelected() }
func (c Refresh) run(s *Session) ([]types.Event, error)        { return s.nav.Refresh() }

func (c Sync) run(s *Session) ([]types.Event, error) {
	if s.watcher == nil || !s.watcher.Changed() {
		return nil, nil
	}
	return s.nav.Refresh()
}

func (c Preview) run(s *Session) ([]types.Event, error) { return s.pipe.Preview() }
func (c Save) run(s *Session) ([]types.Event, error)    { return s.pipe.Save() }

func (c Reset) run(s *Session) ([]types.Event, error) {
	s.pipe.Reset()
	return nil, nil
}

func (c SetMode) run(s *Session) ([]types.Event, error) {
	return nil, s.pipe.Config().SetMode(c.Mode)
}

func (c SetK) run(s *Session) ([]types.Event, error) {
	return nil, s.pipe.Config().SetK(c.K)
}

func (c SetKText) run(s *Session) ([]types.Event, error) {
	return nil, s.pipe.Config().SetKText(c.Text)
}

func (c SetFilename) run(s *Session) ([]types.Event, error) {
	s.pipe.Config().SetFilename(c.Name)
	return nil, nil
}
