// Package theme holds the color palettes and shared styles. Apply swaps the
// palette at runtime; styles are rebuilt from it.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/state"
)

// Palette is a full set of UI colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	Bg        color.Color
	BgCard    color.Color
	Border    color.Color
}

var (
	Dark = Palette{
		Primary:   lipgloss.Color("#8B5CF6"),
		Secondary: lipgloss.Color("#14B8A6"),
		Accent:    lipgloss.Color("#F59E0B"),
		Success:   lipgloss.Color("#22C55E"),
		Error:     lipgloss.Color("#F43F5E"),
		Text:      lipgloss.Color("#F8FAFC"),
		TextDim:   lipgloss.Color("#94A3B8"),
		Bg:        lipgloss.Color("#0F172A"),
		BgCard:    lipgloss.Color("#1E293B"),
		Border:    lipgloss.Color("#334155"),
	}

	Light = Palette{
		Primary:   lipgloss.Color("#6D28D9"),
		Secondary: lipgloss.Color("#0F766E"),
		Accent:    lipgloss.Color("#B45309"),
		Success:   lipgloss.Color("#15803D"),
		Error:     lipgloss.Color("#BE123C"),
		Text:      lipgloss.Color("#0F172A"),
		TextDim:   lipgloss.Color("#475569"),
		Bg:        lipgloss.Color("#F8FAFC"),
		BgCard:    lipgloss.Color("#E2E8F0"),
		Border:    lipgloss.Color("#CBD5E1"),
	}
)

// Active palette colors.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	Bg        color.Color
	BgCard    color.Color
	Border    color.Color
)

// Styles built from the active palette.
var (
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Body       lipgloss.Style
	Hint       lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
	Dim        lipgloss.Style
	Warning    lipgloss.Style
)

var current = state.ThemeDark

func init() { Apply(state.ThemeDark) }

// Current returns the applied theme.
func Current() state.Theme { return current }

// IsDark reports whether the dark palette is applied.
func IsDark() bool { return current != state.ThemeLight }

// Apply switches to the palette for t. Unknown values select dark.
func Apply(t state.Theme) {
	p := Dark
	current = state.ThemeDark
	if t == state.ThemeLight {
		p = Light
		current = state.ThemeLight
	}

	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	Success, Error = p.Success, p.Error
	Text, TextDim = p.Text, p.TextDim
	Bg, BgCard, Border = p.Bg, p.BgCard, p.Border

	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim)
	Body = lipgloss.NewStyle().Foreground(Text)
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Warning = lipgloss.NewStyle().Foreground(Accent).Bold(true)
}
