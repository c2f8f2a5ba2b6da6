package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	// Cell glyphs
	EmptyCell  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))
	ChildCell  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00")).Bold(true)
	ParentCell = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
)

func cellStyle(c rune) lipgloss.Style {
	switch c {
	case 'c':
		return ChildCell
	case 'P':
		return ParentCell
	default:
		return EmptyCell
	}
}

// Separator draws a muted rule of the given width.
func Separator(width int) string {
	if width < 1 {
		return ""
	}
	return Subtle.Render(strings.Repeat("─", width))
}
