package styles

import (
	"github.com/charmbracelet/lipgloss"

	"nordify/internal/config"
)

// Styles defines the core UI styles
type Styles struct {
	App       lipgloss.Style
	Title     lipgloss.Style
	Panel     lipgloss.Style
	Label     lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Directory lipgloss.Style
	Image     lipgloss.Style
	Generic   lipgloss.Style
	Muted     lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Active    lipgloss.Style
}

// Theme is used by every component. Apply replaces it.
var Theme = New(config.New())

// New builds the styles from the configured theme colors.
func New(cfg *config.Config) Styles {
	c := cfg.Theme
	type color = lipgloss.Color

	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(c.Primary)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(c.Border)).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(color(c.Info)),
		Cursor: lipgloss.NewStyle().
			Foreground(color(c.Emphasis)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(color(c.Success)).
			Bold(true),
		Directory: lipgloss.NewStyle().
			Foreground(color(c.Info)).
			Bold(true),
		Image: lipgloss.NewStyle().
			Foreground(color(c.Primary)),
		Generic: lipgloss.NewStyle().
			Foreground(color(c.Border)),
		Muted: lipgloss.NewStyle().
			Foreground(color(c.Border)),
		Help: lipgloss.NewStyle().
			Foreground(color(c.Info)),
		Error: lipgloss.NewStyle().
			Foreground(color(c.Error)).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(color(c.Success)),
		Warning: lipgloss.NewStyle().
			Foreground(color(c.Warning)),
		Active: lipgloss.NewStyle().
			Foreground(color(c.Warning)).
			Bold(true),
	}
}

// Apply switches every component to cfg's colors.
func Apply(cfg *config.Config) {
	Theme = New(cfg)
}
