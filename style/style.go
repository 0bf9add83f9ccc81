package style

import "github.com/charmbracelet/lipgloss"

// Colors — set by SetTheme, defaulting to the dark palette.
var (
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor
	Dim       lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
)

// Styles rebuilt whenever the theme changes.
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	Hint      lipgloss.Style
	ErrorText lipgloss.Style

	// Header
	Title      lipgloss.Style
	RoleActive lipgloss.Style
	RoleIdle   lipgloss.Style

	// Error banner — persistent until the next operation clears it
	ErrorBanner lipgloss.Style

	// Prompt
	PromptChar lipgloss.Style

	// Thread
	DoctorLabel  lipgloss.Style
	PatientLabel lipgloss.Style
	MsgTime      lipgloss.Style
	Translated   lipgloss.Style
	SelectedMark lipgloss.Style
	CursorMark   lipgloss.Style
	SearchHeader lipgloss.Style

	// Summary panel
	SummaryBorder lipgloss.Style
	SummaryTitle  lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusPending lipgloss.Style
)

func init() {
	SetTheme("dark")
}

// SetTheme switches the active palette and rebuilds all styles. Unknown
// names fall back to dark.
func SetTheme(name string) {
	th, ok := Themes[name]
	if !ok {
		th = Themes["dark"]
	}
	CurrentThemeName = th.Name

	Primary = th.Primary
	Secondary = th.Secondary
	Success = th.Success
	Warning = th.Warning
	Error = th.Error
	Muted = th.Muted
	Dim = th.Dim
	Border = th.Border

	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	Hint = lipgloss.NewStyle().Foreground(Dim)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	Title = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	RoleActive = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	RoleIdle = lipgloss.NewStyle().Foreground(Muted)

	ErrorBanner = lipgloss.NewStyle().Foreground(Error).Bold(true).PaddingLeft(1)

	PromptChar = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	DoctorLabel = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	PatientLabel = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	MsgTime = lipgloss.NewStyle().Foreground(Muted)
	Translated = lipgloss.NewStyle().Foreground(Muted)
	SelectedMark = lipgloss.NewStyle().Foreground(Success).Bold(true)
	CursorMark = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	SearchHeader = lipgloss.NewStyle().Foreground(Warning).Bold(true)

	SummaryBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	SummaryTitle = lipgloss.NewStyle().Foreground(Success).Bold(true)

	StatusBar = lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1)
	StatusPending = lipgloss.NewStyle().Foreground(Warning).Bold(true)
}
