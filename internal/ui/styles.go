package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green  — success, credits
	ColorWarning   = lipgloss.Color("#FFB800") // yellow — debits, warnings
	ColorError     = lipgloss.Color("#FF4444") // red    — rejected operations
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan   — addresses, digests
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold — token amounts
	ColorMeta      = lipgloss.Color("#555555") // dim gray  — timestamps, sequence numbers
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue — UI chrome
	ColorToken     = lipgloss.Color("#F7931A") // orange    — token symbol
	ColorHighlight = lipgloss.Color("#F15BB5") // pink      — selected rows
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleToken   = lipgloss.NewStyle().Foreground(ColorToken).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorToken).
			Bold(true).
			MarginBottom(1)
)

// TruncateAddress shortens 0x-addresses for table cells: 0x1234…abcd.
func TruncateAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
