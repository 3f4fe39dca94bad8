package dashboard

import "github.com/charmbracelet/lipgloss"

// Control-room color palette with dark theme
var (
	primary   = lipgloss.Color("#FF6B35") // Accent orange
	secondary = lipgloss.Color("#1E88E5") // Operations blue
	success   = lipgloss.Color("#4CAF50") // Calm green
	warning   = lipgloss.Color("#FFB74D") // Amber warning
	danger    = lipgloss.Color("#F44336") // Alert red

	text       = lipgloss.Color("#E0E0E0")
	textBright = lipgloss.Color("#FFFFFF")
	muted      = lipgloss.Color("#90A4AE")

	panelBg    = lipgloss.Color("#161B26")
	headerBg   = lipgloss.Color("#1C2128")
	borderDark = lipgloss.Color("#30363D")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(textBright).
			Background(headerBg).
			Padding(0, 2).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderDark).
			Foreground(text).
			Padding(1, 2)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(textBright).
			Background(secondary).
			Bold(true).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(success).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warning).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted)

	valueStyle = lipgloss.NewStyle().
			Foreground(textBright).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(danger).
			Foreground(textBright).
			Padding(1, 3)
)

// zoneToneStyle maps a zone card tone to its style.
func zoneToneStyle(tone ZoneTone) lipgloss.Style {
	switch tone {
	case ToneNegative:
		return errorStyle
	case TonePositive:
		return successStyle
	default:
		return infoStyle
	}
}
