package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nordify/internal/tui/styles"
)

type StatusBar struct {
	text    string
	style   lipgloss.Style
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Active

	return &StatusBar{
		style:   styles.Theme.Help,
		spinner: s,
	}
}

// Start shows the spinner next to text and returns the first tick.
func (s *StatusBar) Start(text string) tea.Cmd {
	s.loading = true
	s.text = text
	s.style = styles.Theme.Help
	return s.spinner.Tick
}

// Stop hides the spinner.
func (s *StatusBar) Stop() {
	s.loading = false
}

func (s *StatusBar) Loading() bool { return s.loading }

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.style = styles.Theme.Help
}

// SetNotice shows a rejected command's reason.
func (s *StatusBar) SetNotice(text string) {
	s.text = text
	s.style = styles.Theme.Warning
}

// SetError shows a failed command.
func (s *StatusBar) SetError(err error) {
	s.text = err.Error()
	s.style = styles.Theme.Error
}

func (s *StatusBar) Text() string { return s.text }

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	if s.loading {
		return s.spinner.View() + " " + s.style.Render(s.text)
	}
	return s.style.Render(s.text)
}
