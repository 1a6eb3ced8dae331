package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed    = lipgloss.Color("#ff5555")
	colorGreen  = lipgloss.Color("#50fa7b")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorBlue   = lipgloss.Color("#8be9fd")
	colorPurple = lipgloss.Color("#bd93f9")
	colorDim    = lipgloss.Color("#6272a4")
	colorBg     = lipgloss.Color("#282a36")
	colorFg     = lipgloss.Color("#f8f8f2")
	colorOrange = lipgloss.Color("#ffb86c")
	colorBorder = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true).
			Padding(0, 0, 1, 0)

	// Input section
	labelStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	inputFocusedStyle = inputStyle.
				BorderForeground(colorPurple)

	detectedStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	// Trigger
	buttonStyle = lipgloss.NewStyle().
			Foreground(colorBg).
			Background(colorPurple).
			Bold(true).
			Padding(0, 2)

	buttonFocusedStyle = buttonStyle.
				Background(colorGreen).
				Underline(true)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Background(colorBorder).
				Padding(0, 2)

	// Result panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	summaryStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	advisoryStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	trendLabelStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	trendValueStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	diffUpStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	diffDownStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	diffFlatStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	analyzingStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Foreground(colorRed).
			Padding(0, 1)

	// Help
	helpHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)
