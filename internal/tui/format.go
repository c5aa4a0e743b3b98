package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most width cells, marking the cut with an
// ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// wrapText wraps text to fit within width cells. Words longer than a line
// are broken with a hyphen.
func wrapText(text string, width int) string {
	if width <= 1 {
		return text
	}

	var sb strings.Builder
	lineLength := 0

	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)

		for w > width {
			if lineLength > 0 {
				sb.WriteString("\n")
				lineLength = 0
			}
			head := runewidth.Truncate(word, width-1, "")
			if head == "" {
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			sb.WriteString(head + "-\n")
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}

		switch {
		case lineLength == 0:
		case lineLength+1+w > width:
			sb.WriteString("\n")
			lineLength = 0
		default:
			sb.WriteString(" ")
			lineLength++
		}
		sb.WriteString(word)
		lineLength += w
	}
	return sb.String()
}

// clipBlock keeps at most height lines of s, each cut to width cells.
// Escape sequences survive the cut.
func clipBlock(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return strings.Join(lines, "\n")
}
