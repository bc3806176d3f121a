package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo/internal/model"
)

// Color pairs (dark value, light value). The app picks one side
// explicitly from the persisted theme instead of probing the terminal.
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorText   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBase   = lipgloss.AdaptiveColor{Dark: "#1E1E2E", Light: "#FFFFFF"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Styles is the resolved style set for one theme.
type Styles struct {
	Theme model.Theme

	Header    lipgloss.Style
	StatusBar lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Border    lipgloss.Style
	Dialog    lipgloss.Style

	Item         lipgloss.Style
	SelectedItem lipgloss.Style
	DoneText     lipgloss.Style
	Date         lipgloss.Style
	Placeholder  lipgloss.Style

	OptionActive   lipgloss.Style
	OptionInactive lipgloss.Style
}

// pick resolves an adaptive pair for t.
func pick(c lipgloss.AdaptiveColor, t model.Theme) lipgloss.Color {
	if t == model.ThemeDark {
		return lipgloss.Color(c.Dark)
	}
	return lipgloss.Color(c.Light)
}

// For returns the styles for t.
func For(t model.Theme) Styles {
	blue := pick(ColorBlue, t)
	text := pick(ColorText, t)
	gray := pick(ColorGray, t)
	subtle := pick(ColorSubtle, t)
	border := pick(ColorBorder, t)

	return Styles{
		Theme: t,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(pick(ColorBase, t)).
			Background(blue).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(text).
			Background(subtle).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(pick(ColorRed, t)),
		Help: lipgloss.NewStyle().
			Foreground(gray).
			Italic(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border),
		Dialog: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(blue),

		Item: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(text),
		SelectedItem: lipgloss.NewStyle().
			PaddingLeft(1).
			Bold(true).
			Foreground(blue).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(blue),
		DoneText: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(gray),
		Date: lipgloss.NewStyle().
			Foreground(gray),
		Placeholder: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(gray).
			Italic(true),

		OptionActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(pick(ColorGreen, t)).
			Padding(0, 1),
		OptionInactive: lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1),
	}
}
