package caption

import (
	"reflect"
	"testing"
)

func TestText_FlattensBlocksAndSkipsMedia(t *testing.T) {
	got := Text(`<p>Sunset over <strong>the bay</strong></p><img src="x.jpg"><p>shot &amp; cut</p><script>alert(1)</script>`)
	want := "Sunset over the bay\nshot & cut"
	if got != want {
		t.Fatalf("unexpected text:\n%q\nwant\n%q", got, want)
	}
}

func TestText_Empty(t *testing.T) {
	if got := Text("   "); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestLines_WrapsAndTruncates(t *testing.T) {
	lines := Lines("<p>one two three four five six</p>", 9, 0)
	want := []string{"one two", "three", "four five", "six"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected lines: %q", lines)
	}

	lines = Lines("<p>one two three four five six</p>", 9, 2)
	want = []string{"one two", "three…"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestLines_SplitsLongWords(t *testing.T) {
	lines := Lines("abcdefghij", 4, 0)
	want := []string{"abcd", "efgh", "ij"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected lines: %q", lines)
	}
}
