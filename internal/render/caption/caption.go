// Package caption renders item caption HTML as plain wrapped text.
package caption

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "img": true, "video": true, "iframe": true,
}

// Text flattens caption HTML to text. Block elements become line breaks.
func Text(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(raw))
	}
	body := findBodyNode(doc)
	if body == nil {
		return strings.TrimSpace(html.UnescapeString(raw))
	}

	var b strings.Builder
	collectText(body, &b)
	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Lines wraps the caption text to width runes, at most maxLines lines. A
// truncated caption ends with an ellipsis.
func Lines(raw string, width, maxLines int) []string {
	lines := wrapText(Text(raw), width)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) >= width && width > 1 {
			last = last[:width-1]
		}
		lines[maxLines-1] = string(last) + "…"
	}
	return lines
}

func collectText(node *nethtml.Node, b *strings.Builder) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case nethtml.TextNode:
			b.WriteString(child.Data)
		case nethtml.ElementNode:
			name := strings.ToLower(child.Data)
			if skippedElements[name] {
				continue
			}
			if blockElements[name] {
				b.WriteString("\n")
			}
			collectText(child, b)
			if blockElements[name] {
				b.WriteString("\n")
			}
		}
	}
}

func findBodyNode(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBodyNode(child); found != nil {
			return found
		}
	}
	return nil
}

func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if width < 1 {
		return strings.Split(text, "\n")
	}
	var out []string
	for _, p := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(p) {
			for runeLen(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				r := []rune(word)
				out = append(out, string(r[:width]))
				word = string(r[width:])
			}
			switch {
			case line == "":
				line = word
			case runeLen(line)+1+runeLen(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
