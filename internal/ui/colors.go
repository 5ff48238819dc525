package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	accent  = "#7D56F4"
	green   = "#04B575"
	red     = "#FF4D4D"
	amber   = "#FFA500"
	muted   = "#626262"
	checkOK = "✓"
)

var styles = Palette{
	title:   lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true).MarginBottom(1),
	added:   lipgloss.NewStyle().Foreground(lipgloss.Color(green)).Bold(true),
	failed:  lipgloss.NewStyle().Foreground(lipgloss.Color(red)).Bold(true),
	warn:    lipgloss.NewStyle().Foreground(lipgloss.Color(amber)),
	dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(muted)).Italic(true),
	spinner: lipgloss.NewStyle().Foreground(lipgloss.Color(accent)),
}

// Palette holds the dashboard styles, one per role a line of output can play.
type Palette struct {
	title   lipgloss.Style
	added   lipgloss.Style
	failed  lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
	spinner lipgloss.Style
}

// outcome colors a recent-word line by whether the word was written.
func (p Palette) outcome(line string) string {
	if strings.Contains(line, checkOK) {
		return p.added.Render(line)
	}
	return p.failed.Render(line)
}
