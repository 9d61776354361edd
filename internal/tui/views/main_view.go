package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nordify/internal/tui/common"
	"nordify/internal/tui/styles"
)

// RenderMainView lays out the browser on the left and the transform panel on
// the right, with the status line and key help below. The history overlay
// replaces the browser while it is open.
func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(renderBanner(m) + "\n")

	left := m.BrowserView()
	if h := m.HistoryView(); h != "" {
		left = h
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.PanelView()))
	sb.WriteString("\n")

	if status := m.StatusView(); status != "" {
		sb.WriteString(status + "\n")
	}
	sb.WriteString(m.HelpView())

	return styles.Theme.App.Render(sb.String())
}

func renderBanner(m common.ModelReader) string {
	title := styles.Theme.Title.Render("nordify")
	focus := m.Focus()
	if focus.Editing() {
		title += " " + styles.Theme.Active.Render("editing "+focus.String())
	}
	return title
}
