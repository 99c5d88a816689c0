package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/reelfeed-cli/internal/feed"
)

type Theme struct {
	Title     lipgloss.Style
	ModePill  lipgloss.Style
	Section   lipgloss.Style
	MetaLabel lipgloss.Style
	MetaValue lipgloss.Style
	StateIdle lipgloss.Style
	StateWarn lipgloss.Style
	StateLoad lipgloss.Style

	Card       lipgloss.Style
	CardActive lipgloss.Style
	Caption    lipgloss.Style
	Dot        lipgloss.Style
	DotActive  lipgloss.Style
	Progress   lipgloss.Style

	TitleReady   lipgloss.Style
	TitlePending lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")

	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:  lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:   lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		MetaLabel: lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue: lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle: lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn: lipgloss.NewStyle().Foreground(cpRed),
		StateLoad: lipgloss.NewStyle().Foreground(cpPeach),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cpSurface2),
		CardActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(cpMauve),
		Caption:   lipgloss.NewStyle().Foreground(cpSubtext0),
		Dot:       lipgloss.NewStyle().Foreground(cpSurface2),
		DotActive: lipgloss.NewStyle().Foreground(cpMauve).Bold(true),
		Progress:  lipgloss.NewStyle().Foreground(cpTeal),

		TitleReady:   lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TitlePending: lipgloss.NewStyle().Foreground(cpSubtext0),
	}
}

// StyleItemTitle renders ready items bold and the rest dimmed, which is the
// terminal version of fading media in once it has loaded.
func (t Theme) StyleItemTitle(item feed.Item, title string) string {
	if title == "" {
		return title
	}
	if item.Ready {
		return t.TitleReady.Render(title)
	}
	return t.TitlePending.Render(title)
}

func (t Theme) RenderCard(active bool, body string, width, height int) string {
	style := t.Card
	if active {
		style = t.CardActive
	}
	return style.Width(width).Height(height).MaxHeight(height + 2).Render(body)
}
