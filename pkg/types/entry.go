package types

import "time"

// EntryKind classifies a directory child.
type EntryKind int

const (
	// Directory entries can be navigated into.
	Directory EntryKind = iota
	// Image entries have a recognized image extension and can be selected.
	Image
	// Generic entries are listed but ignore clicks.
	Generic
)

// String returns the kind name.
func (k EntryKind) String() string {
	switch k {
	case Directory:
		return "directory"
	case Image:
		return "image"
	case Generic:
		return "generic"
	default:
		return "unknown"
	}
}

// DirectoryEntry is one child of the listed directory.
// Ordinal is its position in the listing it came from and is only
// meaningful against that listing.
type DirectoryEntry struct {
	Name     string
	FullPath string
	Kind     EntryKind
	Ordinal  int
	Selected bool
	Size     int64
	ModTime  time.Time
}

// IsDir reports whether the entry is a directory.
func (e DirectoryEntry) IsDir() bool {
	return e.Kind == Directory
}

// FilterValue is the text fuzzy filtering matches against.
func (e DirectoryEntry) FilterValue() string {
	return e.Name
}
