package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	tuitheme "github.com/glabrego/reelfeed-cli/internal/tui/theme"
)

const (
	ModeGrid  = "grid"
	ModeReels = "reels"
)

func Header(mode, query string, th tuitheme.Theme) string {
	return th.Title.Render("reelfeed") + " " + th.ModePill.Render(mode) + " " + th.Section.Render(query)
}

func Toolbar(mode string) string {
	if mode == ModeReels {
		return "j/k wheel swipe: next/prev | p play | m mute | o open | y copy | tab category | f filter | esc grid | ? help | q quit"
	}
	return "arrows/hjkl move | enter play | n more | o open | y copy | r retry | tab category | f filter | v reels | ? help | q quit"
}

// FooterInfo is what the footer reports about the visible feed.
type FooterInfo struct {
	Mode      string
	Query     string
	Pages     int
	Shown     int
	Columns   int
	Exhausted bool
	Breaker   string
}

func Footer(in FooterInfo, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(in.Mode),
		th.MetaLabel.Render("query") + " " + th.MetaValue.Render(in.Query),
		th.MetaLabel.Render("pages") + " " + th.MetaValue.Render(fmt.Sprintf("%d", in.Pages)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", in.Shown)),
	}
	if in.Mode == ModeGrid && in.Columns > 0 {
		parts = append(parts, th.MetaLabel.Render("cols")+" "+th.MetaValue.Render(fmt.Sprintf("%d", in.Columns)))
	}
	if in.Exhausted {
		parts = append(parts, th.MetaValue.Render("end of feed"))
	}
	if in.Breaker != "" && in.Breaker != "closed" {
		parts = append(parts, th.StateWarn.Render("api "+in.Breaker))
	}
	return strings.Join(parts, " • ")
}

func Message(loading, hasWarning bool, status, warning, spin string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
		if spin != "" {
			state = spin + " " + state
		}
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

// HelpLines lists the key map. movement holds the reels next/previous bindings.
func HelpLines(movement []key.Binding) []string {
	moves := make([]string, 0, len(movement))
	for _, b := range movement {
		h := b.Help()
		moves = append(moves, h.Key+" "+h.Desc)
	}
	return []string{
		"Grid:",
		"  arrows or h/j/k/l move, enter plays the selected item, n loads more, r retries",
		"  o open media URL, y copy media URL",
		"Reels:",
		"  " + strings.Join(moves, ", ") + ", mouse wheel or a vertical drag move one item",
		"  p play/pause, m mute (remembered), o open media URL, y copy media URL",
		"  click a dot to jump, esc back to grid",
		"Feed:",
		"  tab/shift+tab cycle category, f toggle new-only filter, v switch mode",
		"Other:",
		"  ? toggle help, q quit",
	}
}
