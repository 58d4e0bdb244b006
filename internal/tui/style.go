package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mcoot/colormatch/internal/model"
)

// Background colors per palette index
var tileColors = []lipgloss.Color{
	"196", // red
	"226", // yellow
	"46",  // green
	"33",  // blue
	"129", // purple
	"208",
	"51",
	"201",
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	hudStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	boosterStyle      = lipgloss.NewStyle().PaddingRight(2)
	armedBoosterStyle = lipgloss.NewStyle().PaddingRight(2).Bold(true).Foreground(lipgloss.Color("214"))
	emptyBoosterStyle = lipgloss.NewStyle().PaddingRight(2).Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).MarginTop(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
)

// tileStyle renders one cell three columns wide
func tileStyle(t model.Tile, cursor, selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().Width(3).Align(lipgloss.Center)
	if int(t.Color) >= 0 && int(t.Color) < len(tileColors) {
		s = s.Background(tileColors[t.Color])
	}
	return s.Foreground(lipgloss.Color("16")).Bold(cursor || selected)
}

// tileGlyph marks specials, the selection and the cursor
func tileGlyph(t model.Tile, cursor, selected bool) string {
	switch {
	case cursor && selected:
		return "[*]"
	case cursor:
		return "[ ]"
	case selected:
		return " * "
	case t.Special:
		return " ◆ "
	default:
		return ""
	}
}
