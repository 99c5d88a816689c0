package view

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"

	tuitheme "github.com/glabrego/reelfeed-cli/internal/tui/theme"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiStrip.ReplaceAllString(s, "")
}

func TestToolbar(t *testing.T) {
	if got := Toolbar(ModeGrid); !strings.Contains(got, "enter play") {
		t.Fatalf("unexpected grid toolbar: %q", got)
	}
	if got := Toolbar(ModeReels); !strings.Contains(got, "m mute") {
		t.Fatalf("unexpected reels toolbar: %q", got)
	}
}

func TestHelpLines_ListsMovementBindings(t *testing.T) {
	movement := []key.Binding{
		key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "next")),
		key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "previous")),
	}
	got := strings.Join(HelpLines(movement), "\n")
	for _, want := range []string{"j next, k previous, mouse wheel", "y copy media URL"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in help, got %q", want, got)
		}
	}
}

func TestFooter(t *testing.T) {
	th := tuitheme.Default()
	got := stripANSI(Footer(FooterInfo{Mode: ModeGrid, Query: "music", Pages: 2, Shown: 40, Columns: 3, Exhausted: true, Breaker: "open"}, th))
	for _, want := range []string{"mode grid", "query music", "pages 2", "40 shown", "cols 3", "end of feed", "api open"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in footer, got %q", want, got)
		}
	}

	got = stripANSI(Footer(FooterInfo{Mode: ModeReels, Columns: 3, Breaker: "closed"}, th))
	if strings.Contains(got, "cols") || strings.Contains(got, "api") {
		t.Fatalf("unexpected reels footer: %q", got)
	}
}

func TestMessage(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(Message(false, false, "", "", "", th)); !strings.Contains(got, "state: idle | Ready") {
		t.Fatalf("unexpected idle message: %q", got)
	}
	if got := stripANSI(Message(true, false, "", "", "*", th)); !strings.Contains(got, "state: * loading") {
		t.Fatalf("unexpected loading message: %q", got)
	}
	if got := stripANSI(Message(false, true, "", "boom", "", th)); !strings.Contains(got, "state: warning | boom") {
		t.Fatalf("unexpected warning message: %q", got)
	}
}
