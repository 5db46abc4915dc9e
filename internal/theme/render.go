package theme

import "github.com/charmbracelet/lipgloss"

// Styles is the terminal render layer over a resolved token set. Views use
// these instead of raw colours so accent and mode changes show up in output.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Accent  lipgloss.Style
	Active  lipgloss.Style
	Muted   lipgloss.Style
	Border  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// NewStyles builds terminal styles from resolved tokens. Only plain hex
// tokens map to the terminal; translucent overlay tokens have no terminal
// analogue and are skipped.
func NewStyles(t Tokens) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t[TokenForeground])),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t[TokenPrimary])),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t[TokenPrimary])),
		Active: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t[TokenSidebarActiveText])),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t[TokenMuted])),
		Border: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t[TokenBorder])),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t[TokenDanger])),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t[TokenSuccess])),
	}
}
