package theme

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles the terminal client renders with. They
// are rebuilt whenever the user's palette changes.
type Styles struct {
	Palette Palette

	Header       lipgloss.Style
	StatusBar    lipgloss.Style
	Panel        lipgloss.Style
	ActivePanel  lipgloss.Style
	PanelTitle   lipgloss.Style
	ListItem     lipgloss.Style
	SelectedItem lipgloss.Style
	Completed    lipgloss.Style
	Muted        lipgloss.Style
	Accent       lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles builds the client styles from p.
func NewStyles(p Palette) Styles {
	primary := lipgloss.Color(p.Primary)
	border := lipgloss.Color(p.PrimaryLight)

	return Styles{
		Palette: p,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(must(TextColor(p.Primary)))).
			Background(primary).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TextOnSurface)).
			Background(lipgloss.Color(p.Surface)).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border),

		ActivePanel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Accent)),

		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.PrimaryDark)).
			MarginBottom(1),

		ListItem: lipgloss.NewStyle().
			PaddingLeft(2),

		SelectedItem: lipgloss.NewStyle().
			PaddingLeft(1).
			Bold(true).
			Foreground(primary).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(p.Accent)),

		Completed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TextTertiary)).
			Strikethrough(true),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TextSecondary)),

		Accent: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.AccentDark)),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Error)),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TextSecondary)).
			Italic(true),
	}
}

// DefaultStyles returns the styles for the default palette.
func DefaultStyles() Styles {
	return NewStyles(Default())
}

// CategoryBadge renders a category name in its own color.
func (s Styles) CategoryBadge(name, color string) string {
	if color == "" {
		color = s.Palette.Accent
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(color)).
		Render(name)
}
