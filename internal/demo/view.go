package demo

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/limelight/internal/spotlight"
)

// docView is the demo's single content view.
type docView struct {
	mu sync.Mutex

	id    string
	lines []string
	caret int

	options map[string]any

	dimRanges []spotlight.Range
	dimStyle  tcell.Style
}

func newDocView(id string, lines []string) *docView {
	return &docView{
		id:      id,
		lines:   lines,
		options: map[string]any{"lineNumbers": "on"},
	}
}

func (v *docView) ID() string { return v.id }

func (v *docView) LineCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.lines)
}

func (v *docView) CaretLines() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return []int{v.caret}
}

// moveCaret shifts the caret by delta, clamped to the document, and
// reports whether it moved.
func (v *docView) moveCaret(delta int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := v.caret + delta
	if next < 0 {
		next = 0
	}
	if next >= len(v.lines) {
		next = len(v.lines) - 1
	}
	if next == v.caret {
		return false
	}
	v.caret = next
	return true
}

func (v *docView) caretLine() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.caret
}

func (v *docView) Option(name string, def any) any {
	v.mu.Lock()
	defer v.mu.Unlock()
	if val, ok := v.options[name]; ok {
		return val
	}
	return def
}

func (v *docView) SetOption(name string, value any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options[name] = value
	return nil
}

func (v *docView) SetDimmedRanges(ranges []spotlight.Range, style tcell.Style) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dimRanges = append([]spotlight.Range(nil), ranges...)
	v.dimStyle = style
}

// dimmed reports whether line falls in a dimmed range, and the style to
// draw it with.
func (v *docView) dimmed(line int) (tcell.Style, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.dimRanges {
		if r.Contains(line) {
			return v.dimStyle, true
		}
	}
	return tcell.StyleDefault, false
}

func (v *docView) line(i int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < 0 || i >= len(v.lines) {
		return ""
	}
	return v.lines[i]
}
