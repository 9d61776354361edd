package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nordify/internal/session"
	"nordify/internal/tui/styles"
	"nordify/pkg/types"
)

// TransformPanel shows the render settings, the selection and the preview.
// The filename and k fields are edited in place.
type TransformPanel struct {
	filename textinput.Model
	k        textinput.Model
	state    session.State
	width    int
}

func NewTransformPanel() *TransformPanel {
	filename := textinput.New()
	filename.Placeholder = "output filename"
	filename.Prompt = ""
	filename.CharLimit = 255
	filename.Width = 32

	k := textinput.New()
	k.Placeholder = "32"
	k.Prompt = ""
	k.CharLimit = 3
	k.Width = 4

	return &TransformPanel{filename: filename, k: k, width: 40}
}

// Sync copies st into the panel. Fields being edited keep their text.
func (tp *TransformPanel) Sync(st session.State) {
	tp.state = st
	if !tp.filename.Focused() {
		tp.filename.SetValue(st.Filename)
	}
	if !tp.k.Focused() {
		tp.k.SetValue(strconv.Itoa(int(st.K)))
	}
}

func (tp *TransformPanel) SetWidth(w int) {
	tp.width = w
	tp.filename.Width = w - 12
}

func (tp *TransformPanel) FocusFilename() tea.Cmd {
	tp.k.Blur()
	tp.filename.CursorEnd()
	return tp.filename.Focus()
}

func (tp *TransformPanel) FocusK() tea.Cmd {
	tp.filename.Blur()
	tp.k.CursorEnd()
	return tp.k.Focus()
}

func (tp *TransformPanel) Blur() {
	tp.filename.Blur()
	tp.k.Blur()
	tp.Sync(tp.state)
}

func (tp *TransformPanel) Filename() string { return tp.filename.Value() }
func (tp *TransformPanel) KText() string    { return tp.k.Value() }

// UpdateFilename feeds msg to the filename field.
func (tp *TransformPanel) UpdateFilename(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	tp.filename, cmd = tp.filename.Update(msg)
	return cmd
}

// UpdateK feeds msg to the k field.
func (tp *TransformPanel) UpdateK(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	tp.k, cmd = tp.k.Update(msg)
	return cmd
}

func (tp *TransformPanel) View() string {
	var s strings.Builder
	st := tp.state
	label := styles.Theme.Label.Render

	s.WriteString(styles.Theme.Title.Render("Transform") + "\n\n")

	var modes []string
	for _, m := range types.Modes() {
		name := fmt.Sprintf("%d %s", int(m)+1, m)
		if m == st.Mode {
			name = styles.Theme.Active.Render("[" + name + "]")
		} else {
			name = styles.Theme.Muted.Render(" " + name + " ")
		}
		modes = append(modes, name)
	}
	s.WriteString(strings.Join(modes, " ") + "\n")

	if st.Mode == types.Knn {
		s.WriteString(label("k        ") + tp.k.View() + "\n")
	} else {
		s.WriteString(styles.Theme.Muted.Render("No additional options for this mode") + "\n")
	}

	marker := styles.Theme.Error.Render("✗")
	if st.FilenameValid {
		marker = styles.Theme.Success.Render("✓")
	}
	s.WriteString(label("filename ") + tp.filename.View() + " " + marker + "\n\n")

	s.WriteString(styles.Theme.Title.Render("Selection") + "\n")
	if st.Selection == "" {
		s.WriteString(styles.Theme.Muted.Render("Select an image with enter") + "\n")
	} else {
		s.WriteString(st.Selection + "\n")
		if st.SelectionInfo != nil {
			s.WriteString(styles.Theme.Muted.Render(st.SelectionInfo.String()) + "\n")
		}
	}

	s.WriteString("\n" + styles.Theme.Title.Render("Preview") + "\n")
	if st.PreviewPath == "" {
		s.WriteString(styles.Theme.Muted.Render("Press p to render a preview"))
	} else {
		s.WriteString(st.PreviewPath + "\n" + styles.Theme.Muted.Render("o opens it in the system viewer"))
	}

	return styles.Theme.Panel.Width(tp.width).Render(s.String())
}
