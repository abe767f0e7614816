package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorMatch     = lipgloss.Color("220") // Yellow

	colorText = lipgloss.AdaptiveColor{Light: "235", Dark: "255"}
)

// SetTheme picks the light or dark variant of adaptive colors. Any value
// other than "light" means dark.
func SetTheme(theme string) {
	lipgloss.SetHasDarkBackground(theme != "light")
}

// Title style for the screen heading.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// SearchBox frames the query input.
var SearchBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// ActiveTab style for the selected facet.
var ActiveTab = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// InactiveTab style for the other facets.
var InactiveTab = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// Headline style for an unselected result.
var Headline = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorText)

// SelectedHeadline style for the result under the cursor.
var SelectedHeadline = Headline.
	Foreground(colorHighlight)

// Description style for the result summary.
var Description = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Match style for highlighted query hits.
var Match = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(colorMatch)

// CategoryBadge style for the category label.
var CategoryBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// Meta style for source and age.
var Meta = lipgloss.NewStyle().
	Foreground(colorMuted)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Searching style for the pending indicator.
var Searching = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(0, 1)

// EmptyTitle and EmptyHint render the no-results state.
var (
	EmptyTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Padding(1, 2, 0, 2)
	EmptyHint = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 2)
)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// DebugLine style for the telemetry line.
var DebugLine = lipgloss.NewStyle().
	Foreground(colorMuted).
	Italic(true).
	Padding(0, 1)
