package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/render/caption"
	tuistate "github.com/glabrego/reelfeed-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reelfeed-cli/internal/tui/theme"
)

// MaxDots is how many progress dots fit in the window at once.
const MaxDots = 15

const dotWidth = 2

type ReelInput struct {
	Item      feed.Item
	HasItem   bool
	Index     int
	Total     int
	Playing   bool
	Muted     bool
	Buffered  bool
	Progress  float64
	Width     int
	Height    int
	Loading   bool
	Exhausted bool
	Spinner   string
}

// Dots renders one dot per item around index. Each dot is dotWidth cells.
func Dots(total, index int, th tuitheme.Theme) string {
	start, end := tuistate.CenteredWindow(total, index, MaxDots)
	var b strings.Builder
	for i := start; i < end; i++ {
		if i == index {
			b.WriteString(th.DotActive.Render("●"))
		} else {
			b.WriteString(th.Dot.Render("○"))
		}
		b.WriteString(" ")
	}
	return b.String()
}

// DotAt maps a click column on the dots line to an item index.
func DotAt(x, total, index int) (int, bool) {
	if x < 0 || total <= 0 {
		return 0, false
	}
	start, end := tuistate.CenteredWindow(total, index, MaxDots)
	i := start + x/dotWidth
	if i >= end {
		return 0, false
	}
	return i, true
}

func ProgressBar(progress float64, width int) string {
	if width < 1 {
		return ""
	}
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(width))
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// RenderReel draws the dots line followed by the current item.
func RenderReel(in ReelInput, th tuitheme.Theme) string {
	lines := []string{Dots(in.Total, in.Index, th)}
	if !in.HasItem {
		if in.Loading {
			lines = append(lines, "", strings.TrimSpace(in.Spinner+" Loading reels..."))
		} else {
			lines = append(lines, "", "No items to play.")
		}
		return strings.Join(lines, "\n")
	}

	inner := max(in.Width-4, 10)
	it := in.Item
	title := it.Title
	if title == "" {
		title = it.ID
	}

	body := []string{
		th.StyleItemTitle(it, ansi.Truncate(title, inner, "…")),
		th.MetaLabel.Render(fmt.Sprintf("%d/%d · %s · %s", in.Index+1, in.Total, mediaKind(it), it.Height.String())),
		"",
		playbackLine(in),
	}
	if in.Buffered {
		body = append(body, th.Progress.Render(ProgressBar(in.Progress, inner)))
	} else {
		body = append(body, th.StateLoad.Render("buffering..."))
	}
	body = append(body, "")

	room := in.Height - len(body) - 4
	if room > 0 {
		for _, line := range caption.Lines(it.CaptionHTML, inner, room) {
			body = append(body, th.Caption.Render(line))
		}
	}
	if in.Index == in.Total-1 {
		switch {
		case in.Loading:
			body = append(body, "", strings.TrimSpace(in.Spinner+" loading more..."))
		case in.Exhausted:
			body = append(body, "", th.MetaLabel.Render("end of feed"))
		}
	}

	lines = append(lines, th.RenderCard(false, strings.Join(body, "\n"), inner+2, len(body)))
	return strings.Join(lines, "\n")
}

func playbackLine(in ReelInput) string {
	play := "❚❚ paused"
	if in.Playing {
		play = "▶ playing"
	}
	sound := "sound on"
	if in.Muted {
		sound = "muted"
	}
	return play + "  " + sound
}

func mediaKind(it feed.Item) string {
	if it.Media.Kind == "" {
		return "media"
	}
	return it.Media.Kind
}
