package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style
	TabActive, TabInactive                        lipgloss.Style
	Border                                        lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymDelete, SymCursor     string
}

// ThemeNames lists the accepted SetTheme names.
var ThemeNames = []string{"classic", "neon", "mono"}

var current = classic()

// SetTheme switches the theme; unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
}

func Current() Theme { return current }

func classic() Theme {
	tab := lipgloss.NewStyle().Bold(true).Padding(0, 2).MarginRight(1)
	return Theme{
		Name:        "classic",
		Title:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Faint(true),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:        lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:        lipgloss.NewStyle().Faint(true),
		TabActive:   tab.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#334155")),
		TabInactive: tab.Foreground(lipgloss.Color("#334155")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•",
		SymDelete: "✕", SymCursor: ">",
	}
}

func neon() Theme {
	t := classic()
	t.Name = "neon"
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.TabActive = t.TabActive.Background(lipgloss.Color("13")).Foreground(lipgloss.Color("0"))
	t.TabInactive = t.TabInactive.Foreground(lipgloss.Color("14"))
	t.Border = t.Border.BorderForeground(lipgloss.Color("13"))
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	tab := plain.Padding(0, 1).MarginRight(1)
	return Theme{
		Name:  "mono",
		Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain, Pending: plain,
		Selected:    plain,
		Done:        plain.Strikethrough(true),
		Help:        plain,
		TabActive:   tab.Underline(true),
		TabInactive: tab,
		Border: plain.
			Border(lipgloss.NormalBorder()).
			Padding(0, 1),
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymDone: "x", SymPending: "-",
		SymDelete: "x", SymCursor: ">",
	}
}
