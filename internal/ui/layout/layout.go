// Package layout renders the frame around screens: header, footer and the
// too-small notice.
package layout

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/abhisek/triviaz/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	appName = "Triviaz"
)

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// Truncate shortens s to at most w cells, adding an ellipsis.
func Truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}

// RenderMinSizeMessage renders the "terminal too small" notice.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Terminal too small\n\nNeed at least %d x %d, have %d x %d",
			MinWidth, MinHeight, width, height))
}

// RenderHeader renders the top bar: app name, screen title and the signed
// in identity.
func RenderHeader(title, identity string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(appName)
	right := ""
	if identity != "" {
		right = lipgloss.NewStyle().Foreground(theme.Accent).Render("● " + Truncate(identity, 20))
	}

	inner := width - 4
	titleW := inner - lipgloss.Width(left) - lipgloss.Width(right) - 4
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(Truncate(title, titleW))

	gap := inner - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	leftGap := max(gap/2, 1)
	rightGap := max(gap-leftGap, 1)

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter renders key bindings as a single help line.
func RenderFooter(bindings []key.Binding, width int) string {
	h := help.New()
	if theme.IsDark() {
		h.Styles = help.DefaultDarkStyles()
	} else {
		h.Styles = help.DefaultLightStyles()
	}
	h.SetWidth(width - 4)

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(h.ShortHelpView(bindings))
}

// RenderFrame stacks header, content and footer, sizing the content to fill
// the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// ContentHeight is the height left for a screen between header and footer.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// CardWidth is the width of the main card for a content area of width.
func CardWidth(width int) int {
	return min(max(width-4, MinWidth-4), 72)
}
