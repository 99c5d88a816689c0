package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/glabrego/reelfeed-cli/internal/feed"
)

func TestStyleItemTitle_ByReadiness(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	ready := th.StyleItemTitle(feed.Item{Ready: true}, "Ready")
	if !strings.Contains(ready, "\x1b[") {
		t.Fatalf("expected styled ready title, got %q", ready)
	}
	pending := th.StyleItemTitle(feed.Item{}, "Pending")
	if !strings.Contains(pending, "\x1b[") {
		t.Fatalf("expected styled pending title, got %q", pending)
	}
	if ready == th.StyleItemTitle(feed.Item{}, "Ready") {
		t.Fatal("expected ready and pending styles to differ")
	}
	if th.StyleItemTitle(feed.Item{}, "") != "" {
		t.Fatal("expected empty title to stay empty")
	}
}

func TestRenderCard_Height(t *testing.T) {
	th := Default()
	out := th.RenderCard(false, "title\ncaption", 12, 3)
	if got := len(strings.Split(out, "\n")); got != 5 {
		t.Fatalf("expected 3 content lines plus borders, got %d:\n%s", got, out)
	}
	if active := th.RenderCard(true, "x", 12, 3); active == out {
		t.Fatal("expected active card to render differently")
	}
}
