package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/layout"
	"github.com/glabrego/reelfeed-cli/internal/render/caption"
	tuistate "github.com/glabrego/reelfeed-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reelfeed-cli/internal/tui/theme"
)

const (
	columnGap      = 1
	minColumnWidth = 14
)

type GridInput struct {
	Columns    []layout.Column
	Width      int
	Height     int
	SelectedID string
}

// CardHeight is the number of content lines for a hint, roughly following
// the packing weights.
func CardHeight(h feed.HeightHint) int {
	switch h {
	case feed.HeightShort:
		return 2
	case feed.HeightTall:
		return 5
	default:
		return 3
	}
}

// ColumnWidth is the outer width of one grid column.
func ColumnWidth(width, columns int) int {
	if columns < 1 {
		columns = 1
	}
	w := (width - columnGap*(columns-1)) / columns
	return max(w, minColumnWidth)
}

// RenderGrid draws the masonry columns side by side, scrolled so the
// selected card stays in view.
func RenderGrid(in GridInput, th tuitheme.Theme) string {
	if len(in.Columns) == 0 {
		return ""
	}
	colW := ColumnWidth(in.Width, len(in.Columns))

	blocks := make([][]string, len(in.Columns))
	total, focus := 0, 0
	for c, col := range in.Columns {
		var lines []string
		for _, it := range col.Items {
			active := it.ID == in.SelectedID
			card := th.RenderCard(active, cardBody(it, colW-2, th), colW-2, CardHeight(it.Height))
			if active {
				focus = len(lines) + CardHeight(it.Height)/2
			}
			lines = append(lines, strings.Split(card, "\n")...)
		}
		blocks[c] = lines
		total = max(total, len(lines))
	}

	start, end := tuistate.CenteredWindow(total, focus, in.Height)
	rendered := make([]string, 0, 2*len(blocks))
	blank := strings.Repeat(" ", colW)
	for c, lines := range blocks {
		window := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			if i < len(lines) {
				window = append(window, lines[i])
			} else {
				window = append(window, blank)
			}
		}
		if c > 0 {
			rendered = append(rendered, strings.Repeat(" ", columnGap))
		}
		rendered = append(rendered, strings.Join(window, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func cardBody(it feed.Item, width int, th tuitheme.Theme) string {
	height := CardHeight(it.Height)
	title := it.Title
	if title == "" {
		title = it.ID
	}
	lines := []string{th.StyleItemTitle(it, ansi.Truncate(title, width, "…"))}
	if room := height - 2; room > 0 {
		for _, line := range caption.Lines(it.CaptionHTML, width, room) {
			lines = append(lines, th.Caption.Render(line))
		}
	}
	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	marker := "○ " + it.Height.String()
	if it.Ready {
		marker = "● " + it.Height.String()
	}
	lines = append(lines, th.MetaLabel.Render(marker))
	return strings.Join(lines, "\n")
}

// ColumnIDs flattens columns to item ids for navigation.
func ColumnIDs(columns []layout.Column) [][]string {
	out := make([][]string, len(columns))
	for c, col := range columns {
		ids := make([]string, len(col.Items))
		for i, it := range col.Items {
			ids[i] = it.ID
		}
		out[c] = ids
	}
	return out
}
