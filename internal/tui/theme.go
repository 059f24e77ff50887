package tui

import "github.com/charmbracelet/lipgloss"

// Color palette. No ad-hoc color literals anywhere else.
var (
	colorBgSurface = lipgloss.Color("#1c2128")

	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	colorOrange = lipgloss.Color("#ff922b")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorYellow = lipgloss.Color("#d29922")

	colorDivider   = lipgloss.Color("#30363d")
	colorHighlight = lipgloss.Color("#3d2a14")
)

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorOrange)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Panels
var (
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.Border{Top: "─"}).
			BorderForeground(colorDivider)

	panelActiveStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.Border{Top: "─"}).
				BorderForeground(colorOrange)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorOrange).
			Bold(true)
)

// Friend list
var (
	friendNameStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	friendRowSelectedStyle = lipgloss.NewStyle().
				Background(colorHighlight)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorOrange).
			Bold(true)

	statusOwesYouStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	statusYouOweStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	statusEvenStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	selectedTagStyle = lipgloss.NewStyle().
				Foreground(colorOrange)
)

// Forms
var (
	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Width(18)

	inputStyle = lipgloss.NewStyle().
			Foreground(colorText)

	inputFocusedStyle = lipgloss.NewStyle().
				Foreground(colorOrange).
				Bold(true)

	derivedStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// Footer and status line
var (
	footerStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(0, 1)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Bold(true)

	statusMsgStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Padding(0, 1)

	errorMsgStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Padding(0, 1)
)
