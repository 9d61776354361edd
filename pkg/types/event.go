package types

// Event is an immutable notification exchanged through the session.
// Components never read each other's state; they react to events instead.
type Event interface {
	event()
}

// DirectoryChanged reports that browsing moved to Dir.
type DirectoryChanged struct {
	Dir string
}

// IndexRefreshed reports a new listing of Dir.
type IndexRefreshed struct {
	Dir        string
	Generation uint64
}

// SelectionChanged reports the new global selection. Path is empty when the
// selection was cleared.
type SelectionChanged struct {
	Path string
}

// PreviewReady reports a finished preview render.
type PreviewReady struct {
	Path string
}

// Saved reports a render written to Path. Overwrote is set when a file
// already existed there.
type Saved struct {
	Path      string
	Overwrote bool
}

// Deleted reports that the selected file at Path was removed.
type Deleted struct {
	Path string
}

func (DirectoryChanged) event() {}
func (IndexRefreshed) event()   {}
func (SelectionChanged) event() {}
func (PreviewReady) event()     {}
func (Saved) event()            {}
func (Deleted) event()          {}
