// Package style composes lipgloss styles into plain string renderers for CLI output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kissbridge/kissbridge/color"
)

// New returns an empty lipgloss.Style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer applying the foreground color.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Tag renders s as a padded badge, used for quality and transport labels.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(fg).Background(bg).Padding(0, 1).Render(s) }
}

// ErrorTitle renders an error banner.
var ErrorTitle = func(s string) string {
	return Tag(color.New("230"), color.Red)(s)
}
