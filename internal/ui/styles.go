package ui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors, assigned from the active flavor by ApplyTheme.
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorHighlight lipgloss.Color
	ColorText      lipgloss.Color
)

// Styles
var (
	BoxStyle      lipgloss.Style
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	SelectedStyle lipgloss.Style
	NormalStyle   lipgloss.Style
	BranchStyle   lipgloss.Style
	DetachedStyle lipgloss.Style
	HashStyle     lipgloss.Style
	PathStyle     lipgloss.Style
	HelpStyle     lipgloss.Style
	InputStyle    lipgloss.Style
	LabelStyle    lipgloss.Style
	ErrorStyle    lipgloss.Style
	DangerStyle   lipgloss.Style
	DisabledStyle lipgloss.Style
	DividerStyle  lipgloss.Style
)

// Symbols
const (
	SymbolCursor  = "›"
	SymbolDivider = "─"
	SymbolError   = "✗"
)

func init() {
	ApplyTheme("mocha")
}

// FlavorFromName maps a theme name to a catppuccin flavor. "auto" picks
// Mocha on dark terminals and Latte on light ones.
func FlavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	case "mocha":
		return catppuccin.Mocha
	case "auto", "":
		if termenv.HasDarkBackground() {
			return catppuccin.Mocha
		}
		return catppuccin.Latte
	default:
		return catppuccin.Mocha
	}
}

// ApplyTheme rebuilds every style from the named flavor.
func ApplyTheme(name string) {
	applyFlavor(FlavorFromName(name))
}

func hex(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

func applyFlavor(f catppuccin.Flavor) {
	ColorPrimary = hex(f.Blue())
	ColorSecondary = hex(f.Surface1())
	ColorSuccess = hex(f.Green())
	ColorWarning = hex(f.Yellow())
	ColorDanger = hex(f.Red())
	ColorMuted = hex(f.Overlay1())
	ColorHighlight = hex(f.Teal())
	ColorText = hex(f.Text())

	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(hex(f.Mauve()))

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorMuted)

	SelectedStyle = lipgloss.NewStyle().
		Foreground(ColorHighlight).
		Bold(true)

	NormalStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	BranchStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	DetachedStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Italic(true)

	HashStyle = lipgloss.NewStyle().
		Foreground(hex(f.Peach()))

	PathStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
		Foreground(hex(f.Overlay0()))

	InputStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
		Foreground(hex(f.Subtext0()))

	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorDanger).
		Bold(true)

	DangerStyle = lipgloss.NewStyle().
		Foreground(ColorDanger)

	DisabledStyle = lipgloss.NewStyle().
		Foreground(hex(f.Surface2()))

	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
}
