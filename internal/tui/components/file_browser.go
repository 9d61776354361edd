package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nordify/internal/tui/styles"
	"nordify/pkg/types"
)

// FileBrowser is the address bar above the file list, plus the filter line.
type FileBrowser struct {
	address  textinput.Model
	filter   textinput.Model
	fileList *FileList
	width    int
	height   int
}

func NewFileBrowser() *FileBrowser {
	address := textinput.New()
	address.Prompt = ""
	address.Placeholder = "directory"

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter"

	return &FileBrowser{
		address:  address,
		filter:   filter,
		fileList: NewFileList(),
		width:    80,
		height:   20,
	}
}

func (fb *FileBrowser) SetSize(width, height int) {
	fb.width = width
	fb.height = height
	fb.address.Width = width - 4
	// Address line, filter line and border
	fb.fileList.SetHeight(height - 4)
}

// Sync shows the listing and, unless it is being edited, the address text.
func (fb *FileBrowser) Sync(address string, entries []types.DirectoryEntry) {
	if !fb.address.Focused() {
		fb.address.SetValue(address)
	}
	fb.fileList.SetEntries(entries)
}

func (fb *FileBrowser) List() *FileList { return fb.fileList }

func (fb *FileBrowser) FocusAddress() tea.Cmd {
	fb.address.CursorEnd()
	return fb.address.Focus()
}

func (fb *FileBrowser) FocusFilter() tea.Cmd {
	return fb.filter.Focus()
}

// Blur leaves both fields. The filter keeps narrowing the list.
func (fb *FileBrowser) Blur() {
	fb.address.Blur()
	fb.filter.Blur()
}

// ClearFilter empties the filter and shows the whole listing.
func (fb *FileBrowser) ClearFilter() {
	fb.filter.SetValue("")
	fb.fileList.SetFilter("")
}

// ResetAddress drops unsubmitted address edits.
func (fb *FileBrowser) ResetAddress(address string) {
	fb.address.SetValue(address)
}

// Home clears the filter and moves the cursor to the top.
func (fb *FileBrowser) Home() {
	fb.filter.SetValue("")
	fb.fileList.Home()
}

func (fb *FileBrowser) Address() string { return fb.address.Value() }

func (fb *FileBrowser) UpdateAddress(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	fb.address, cmd = fb.address.Update(msg)
	return cmd
}

// UpdateFilter feeds msg to the filter field and narrows the list.
func (fb *FileBrowser) UpdateFilter(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	fb.filter, cmd = fb.filter.Update(msg)
	fb.fileList.SetFilter(fb.filter.Value())
	return cmd
}

func (fb *FileBrowser) View() string {
	view := styles.Theme.Label.Render("› ") + fb.address.View() + "\n"
	if fb.filter.Focused() || fb.filter.Value() != "" {
		view += fb.filter.View() + "\n"
	} else {
		view += "\n"
	}
	view += fb.fileList.View()
	return styles.Theme.Panel.Width(fb.width).Render(view)
}
