package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	dim    = lipgloss.Color("243")
)

// Styles decorates the lines the runner prints between prompts.
type Styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Section lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warn    lipgloss.Style
	Success lipgloss.Style
}

// DefaultStyles is a muted palette that reads on dark terminals.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Heading: lipgloss.NewStyle().Bold(true),
		Section: lipgloss.NewStyle().Underline(true),
		Muted:   lipgloss.NewStyle().Foreground(dim),
		Error:   lipgloss.NewStyle().Foreground(red),
		Warn:    lipgloss.NewStyle().Foreground(yellow),
		Success: lipgloss.NewStyle().Foreground(green),
	}
}

// PlainStyles renders text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   plain,
		Heading: plain,
		Section: plain,
		Muted:   plain,
		Error:   plain,
		Warn:    plain,
		Success: plain,
	}
}

func (s Styles) errorLine(msg string) string {
	return s.Error.Render("✗") + " " + msg
}

func (s Styles) warnLine(msg string) string {
	return s.Warn.Render("!") + " " + msg
}

func (s Styles) successLine(msg string) string {
	return s.Success.Render("✓") + " " + msg
}
