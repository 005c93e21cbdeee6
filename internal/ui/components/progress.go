package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/ui/theme"
)

// Bar renders a horizontal bar filled to percent (0..1) within width cells,
// followed by the percentage.
func Bar(percent float64, width int) string {
	percent = max(0, min(percent, 1))
	barWidth := max(width-6, 4)
	filled := int(float64(barWidth)*percent + 0.5)

	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled)) +
		theme.Dim.Render(fmt.Sprintf(" %3d%%", int(percent*100+0.5)))
}
