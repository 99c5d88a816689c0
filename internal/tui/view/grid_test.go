package view

import (
	"strings"
	"testing"

	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/layout"
	tuitheme "github.com/glabrego/reelfeed-cli/internal/tui/theme"
)

func gridFixture(t *testing.T) []layout.Column {
	t.Helper()
	items := []feed.Item{
		{ID: "a", Title: "Tall one", Height: feed.HeightTall, CaptionHTML: "<p>first caption</p>"},
		{ID: "b", Title: "Medium one", Height: feed.HeightMedium, Ready: true},
		{ID: "c", Title: "Short one", Height: feed.HeightShort},
	}
	cols, err := layout.Layout(items, 2)
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	return cols
}

func TestRenderGrid_AllColumnsVisible(t *testing.T) {
	th := tuitheme.Default()
	out := stripANSI(RenderGrid(GridInput{Columns: gridFixture(t), Width: 40, Height: 100, SelectedID: "a"}, th))

	for _, want := range []string{"Tall one", "Medium one", "Short one", "first caption", "● medium", "○ tall"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in grid:\n%s", want, out)
		}
	}
	// Column 1 holds the medium and the short card: 5 + 4 lines.
	if got := len(strings.Split(out, "\n")); got != 9 {
		t.Fatalf("expected 9 lines, got %d:\n%s", got, out)
	}
}

func TestRenderGrid_ScrollsToSelection(t *testing.T) {
	th := tuitheme.Default()
	out := stripANSI(RenderGrid(GridInput{Columns: gridFixture(t), Width: 40, Height: 4, SelectedID: "c"}, th))

	if got := len(strings.Split(out, "\n")); got != 4 {
		t.Fatalf("expected window of 4 lines, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "Short one") {
		t.Fatalf("expected selected card in view:\n%s", out)
	}
	if strings.Contains(out, "Tall one") {
		t.Fatalf("expected first card scrolled out:\n%s", out)
	}
}

func TestRenderGrid_Empty(t *testing.T) {
	if got := RenderGrid(GridInput{}, tuitheme.Default()); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestColumnWidthAndIDs(t *testing.T) {
	if got := ColumnWidth(100, 3); got != 32 {
		t.Fatalf("expected 32, got %d", got)
	}
	if got := ColumnWidth(20, 4); got != minColumnWidth {
		t.Fatalf("expected minimum width, got %d", got)
	}
	ids := ColumnIDs(gridFixture(t))
	if len(ids) != 2 || len(ids[0]) != 1 || ids[0][0] != "a" || ids[1][0] != "b" || ids[1][1] != "c" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
