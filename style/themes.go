package style

import "github.com/charmbracelet/lipgloss"

// Theme defines a complete color palette for the console.
type Theme struct {
	Name                                        string
	Primary, Secondary, Success, Warning, Error lipgloss.TerminalColor
	Muted, Dim, Border                          lipgloss.TerminalColor
}

// Built-in themes.
var (
	darkTheme = Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("#2DD4BF"), // teal-400
		Secondary: lipgloss.Color("#60A5FA"), // blue-400
		Success:   lipgloss.Color("#22C55E"), // green-500
		Warning:   lipgloss.Color("#F59E0B"), // amber-500
		Error:     lipgloss.Color("#EF4444"), // red-500
		Muted:     lipgloss.Color("#6B7280"), // gray-500
		Dim:       lipgloss.Color("#374151"), // gray-700
		Border:    lipgloss.Color("#4B5563"), // gray-600
	}

	lightTheme = Theme{
		Name:      "light",
		Primary:   lipgloss.Color("#0D9488"), // teal-600
		Secondary: lipgloss.Color("#2563EB"), // blue-600
		Success:   lipgloss.Color("#16A34A"), // green-600
		Warning:   lipgloss.Color("#D97706"), // amber-600
		Error:     lipgloss.Color("#DC2626"), // red-600
		Muted:     lipgloss.Color("#9CA3AF"), // gray-400
		Dim:       lipgloss.Color("#D1D5DB"), // gray-300
		Border:    lipgloss.Color("#9CA3AF"), // gray-400
	}
)

// Themes maps theme names to their definitions.
var Themes = map[string]Theme{
	"dark":  darkTheme,
	"light": lightTheme,
}

// CurrentThemeName tracks the active theme name.
var CurrentThemeName = "dark"
