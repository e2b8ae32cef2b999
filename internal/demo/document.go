package demo

import (
	"fmt"
	"strings"
)

// sampleSentences seed the generated document. The goal is plausible
// prose with varying line lengths, enough to scroll and to make the
// spotlight contrast visible.
var sampleSentences = []string{
	"The quick brown fox jumps over the lazy dog.",
	"Writing is rewriting; the first draft only finds the shape.",
	"A paragraph earns its place by carrying one idea.",
	"Short lines read fast.",
	"Long lines wander across the page, collecting commas and subordinate clauses until the reader loses the thread entirely.",
	"Focus is the art of ignoring.",
	"The cursor blinks, patient as a metronome.",
	"Every editor is a small machine for paying attention.",
}

// GenerateDocument produces n lines of sample prose with line markers,
// so scroll position and dimming are easy to eyeball.
func GenerateDocument(n int) []string {
	if n <= 0 {
		n = 1
	}
	lines := make([]string, n)
	for i := range lines {
		sentence := sampleSentences[i%len(sampleSentences)]
		lines[i] = fmt.Sprintf("%s  (%d)", sentence, i+1)
	}
	return lines
}

// wrapWidth truncates a line to fit the given width in runes, marking
// the cut.
func wrapWidth(line string, width int) string {
	if width <= 0 {
		return line
	}
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	if width == 1 {
		return string(runes[:1])
	}
	return strings.TrimRight(string(runes[:width-1]), " ") + "…"
}
