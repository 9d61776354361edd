package components

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"nordify/internal/history"
	"nordify/internal/tui/styles"
)

// HistoryList is the overlay of recently visited directories.
type HistoryList struct {
	visits []history.Visit
	cursor int
	open   bool
}

func NewHistoryList() *HistoryList {
	return &HistoryList{}
}

// Show opens the overlay with visits.
func (hl *HistoryList) Show(visits []history.Visit) {
	hl.visits = visits
	hl.cursor = 0
	hl.open = true
}

func (hl *HistoryList) Hide()      { hl.open = false }
func (hl *HistoryList) Open() bool { return hl.open }

func (hl *HistoryList) MoveCursor(delta int) {
	next := hl.cursor + delta
	if next >= 0 && next < len(hl.visits) {
		hl.cursor = next
	}
}

// Current returns the directory under the cursor, or "".
func (hl *HistoryList) Current() string {
	if hl.cursor >= 0 && hl.cursor < len(hl.visits) {
		return hl.visits[hl.cursor].Path
	}
	return ""
}

func (hl *HistoryList) View() string {
	if !hl.open {
		return ""
	}

	var s strings.Builder
	s.WriteString(styles.Theme.Title.Render("Recent directories") + "\n\n")
	if len(hl.visits) == 0 {
		s.WriteString(styles.Theme.Muted.Render("No history yet"))
		return styles.Theme.Panel.Render(s.String())
	}

	for i, v := range hl.visits {
		cursor := "  "
		if i == hl.cursor {
			cursor = styles.Theme.Cursor.Render("> ")
		}
		s.WriteString(fmt.Sprintf("%s%s %s\n",
			cursor,
			styles.Theme.Directory.Render(v.Path),
			styles.Theme.Muted.Render(fmt.Sprintf("(%d, %s)", v.Frequency, humanize.Time(v.LastVisited)))))
	}
	s.WriteString("\n" + styles.Theme.Help.Render("enter go  esc close"))
	return styles.Theme.Panel.Render(s.String())
}
