package login

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/ui/theme"
)

const bannerArt = `████████╗██████╗ ██╗██╗   ██╗██╗ █████╗ ███████╗
╚══██╔══╝██╔══██╗██║██║   ██║██║██╔══██╗╚══███╔╝
   ██║   ██████╔╝██║██║   ██║██║███████║  ███╔╝
   ██║   ██╔══██╗██║╚██╗ ██╔╝██║██╔══██║ ███╔╝
   ██║   ██║  ██║██║ ╚████╔╝ ██║██║  ██║███████╗
   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═══╝  ╚═╝╚═╝  ╚═╝╚══════╝`

const bannerCompact = "T R I V I A Z"

// RenderBanner returns the banner in the primary color, or a compact
// fallback below 52 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
