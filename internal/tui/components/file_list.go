package components

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"nordify/internal/browse"
	"nordify/internal/tui/styles"
	"nordify/pkg/types"
)

// FileList shows the listing with a cursor. A filter narrows the visible
// entries; each keeps the ordinal it has in the full listing.
type FileList struct {
	entries []types.DirectoryEntry
	visible []types.DirectoryEntry
	filter  string
	cursor  int
	offset  int
	height  int
}

func NewFileList() *FileList {
	return &FileList{height: 20}
}

// SetEntries replaces the listing and keeps the cursor in range.
func (fl *FileList) SetEntries(entries []types.DirectoryEntry) {
	fl.entries = entries
	fl.apply()
}

// SetFilter narrows the visible entries by fuzzy match.
func (fl *FileList) SetFilter(pattern string) {
	if pattern == fl.filter {
		return
	}
	fl.filter = pattern
	fl.cursor = 0
	fl.apply()
}

func (fl *FileList) Filter() string { return fl.filter }

func (fl *FileList) apply() {
	fl.visible = browse.Filter(fl.entries, fl.filter)
	fl.clamp()
}

// SetHeight sets how many rows are drawn.
func (fl *FileList) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	fl.height = h
	fl.clamp()
}

func (fl *FileList) MoveCursor(delta int) {
	fl.cursor += delta
	fl.clamp()
}

// Home puts the cursor on the first entry and clears the filter.
func (fl *FileList) Home() {
	fl.filter = ""
	fl.cursor = 0
	fl.offset = 0
	fl.apply()
}

func (fl *FileList) clamp() {
	if fl.cursor >= len(fl.visible) {
		fl.cursor = len(fl.visible) - 1
	}
	if fl.cursor < 0 {
		fl.cursor = 0
	}
	if fl.cursor < fl.offset {
		fl.offset = fl.cursor
	}
	if fl.cursor >= fl.offset+fl.height {
		fl.offset = fl.cursor - fl.height + 1
	}
}

func (fl *FileList) Cursor() int { return fl.cursor }

// Visible returns the entries currently shown.
func (fl *FileList) Visible() []types.DirectoryEntry { return fl.visible }

// Current returns the entry under the cursor, or nil.
func (fl *FileList) Current() *types.DirectoryEntry {
	if fl.cursor >= 0 && fl.cursor < len(fl.visible) {
		e := fl.visible[fl.cursor]
		return &e
	}
	return nil
}

func (fl *FileList) View() string {
	var s strings.Builder

	if len(fl.visible) == 0 {
		if fl.filter != "" {
			return styles.Theme.Muted.Render("No matches for " + fl.filter)
		}
		return styles.Theme.Muted.Render("Empty directory")
	}

	end := fl.offset + fl.height
	if end > len(fl.visible) {
		end = len(fl.visible)
	}
	for i := fl.offset; i < end; i++ {
		e := fl.visible[i]

		cursor := "  "
		if i == fl.cursor {
			cursor = styles.Theme.Cursor.Render("> ")
		}

		name := e.Name
		style := styles.Theme.Generic
		switch e.Kind {
		case types.Directory:
			name += "/"
			style = styles.Theme.Directory
		case types.Image:
			style = styles.Theme.Image
		}
		if e.Selected {
			name = "* " + name
			style = styles.Theme.Selected
		}

		details := ""
		if !e.IsDir() {
			details = fmt.Sprintf(" %8s  %s", humanize.Bytes(uint64(e.Size)), humanize.Time(e.ModTime))
		}

		s.WriteString(fmt.Sprintf("%s%s%s\n", cursor, style.Render(name), styles.Theme.Muted.Render(details)))
	}
	return strings.TrimSuffix(s.String(), "\n")
}
