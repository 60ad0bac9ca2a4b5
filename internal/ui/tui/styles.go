package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginTop(1)

	doneStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	currentStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(colorDim)
	warningStyle = lipgloss.NewStyle().Foreground(colorYellow)
	failedStyle  = lipgloss.NewStyle().Foreground(colorRed)
	labelStyle   = lipgloss.NewStyle().Foreground(colorDim).Width(26)

	keyStyle      = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)

	progressBarFull  = lipgloss.NewStyle().Foreground(colorGreen)
	progressBarEmpty = lipgloss.NewStyle().Foreground(colorDim)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			MarginTop(1)
)

const (
	markDone    = "[x]"
	markCurrent = "[>]"
	markPending = "[ ]"
)
