package cliui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared text styles for command output.
var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	KeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	NameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	RoleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	PreviewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// Swatch renders a hex color as a small filled block.
func Swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("   ")
}

// Palette renders each color as a swatch followed by its code.
func Palette(hexes []string) string {
	parts := make([]string, 0, len(hexes))
	for _, hex := range hexes {
		parts = append(parts, Swatch(hex)+" "+ValueStyle.Render(hex))
	}
	return strings.Join(parts, "  ")
}
