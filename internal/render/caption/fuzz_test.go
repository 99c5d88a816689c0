package caption

import (
	"testing"
	"unicode/utf8"
)

func FuzzLines(f *testing.F) {
	seeds := []string{
		"",
		"<p>Hello world</p>",
		"<div><h1>Title</h1><p>Paragraph</p></div>",
		"<p><img src='https://example.com/image.jpg' alt='Image'>after</p>",
		"<ul><li>one</li><li>two</li></ul>",
		"<<<<<<<<",
		"\x00\x01\x02<script>alert(1)</script>",
		"averyveryverylongwordwithoutspaces",
	}
	for _, s := range seeds {
		f.Add(s, 12, 3)
	}

	f.Fuzz(func(t *testing.T, raw string, width, maxLines int) {
		if len(raw) > 10_000 {
			raw = raw[:10_000]
		}
		width = width%120 + 1
		if width < 1 {
			width = -width + 1
		}
		maxLines %= 20
		lines := Lines(raw, width, maxLines)
		if maxLines > 0 && len(lines) > maxLines {
			t.Fatalf("got %d lines, limit %d", len(lines), maxLines)
		}
		for _, line := range lines {
			if n := utf8.RuneCountInString(line); n > width+1 {
				t.Fatalf("line %q has %d runes, width %d", line, n, width)
			}
		}
	})
}
