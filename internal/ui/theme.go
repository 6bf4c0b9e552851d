package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles styles + symbols + the panel border.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, FoundText                           lipgloss.Style

	BoxUnfound, BoxFound string
	Pin, Cursor          string
	Border               lipgloss.Border
	BorderColor          lipgloss.TerminalColor
}

var current = classic()

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:     lipgloss.NewStyle().Faint(true),
			Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			FoundText: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),

			BoxUnfound: "◻", BoxFound: "◼",
			Pin: "◉", Cursor: "❯ ",
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
		}
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Selected: plain.Reverse(true), FoundText: plain,

			BoxUnfound: "[ ]", BoxFound: "[x]",
			Pin: "*", Cursor: "> ",
			Border:      lipgloss.ASCIIBorder(),
			BorderColor: lipgloss.NoColor{},
		}
	default: // classic
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle().Faint(true),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:  lipgloss.NewStyle().Bold(true).Reverse(true),
		FoundText: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),

		BoxUnfound: "☐", BoxFound: "☑",
		Pin: "📍", Cursor: "> ",
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),
	}
}

// Expose what renderers need
func Current() Theme { return current }
