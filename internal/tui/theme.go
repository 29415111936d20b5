package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The outline must stay readable on both light and dark terminal
// backgrounds, so everything uses lipgloss.AdaptiveColor.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorDone       lipgloss.TerminalColor = ac("28", "71")
	colorFlashErr   lipgloss.TerminalColor = ac("196", "160")

	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleSelected = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
	styleCursor   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleDone     = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	styleFlashErr = lipgloss.NewStyle().Foreground(colorFlashErr)
)

// markdownStyle picks the glamour style matching the terminal background;
// auto-style is avoided because it can block on terminal queries.
func markdownStyle() string {
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
