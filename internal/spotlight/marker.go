package spotlight

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Surface is the part of a view the marker paints on. The host's view type
// implements it; the marker never touches anything else.
type Surface interface {
	// SetDimmedRanges replaces the view's dim decoration with the given
	// ranges rendered in style. An empty range set clears the decoration.
	SetDimmedRanges(ranges []Range, style tcell.Style)
}

// Palette holds the theme colors the dim style is derived from.
type Palette struct {
	Foreground tcell.Color
	Background tcell.Color
}

// DefaultPalette is a neutral light-on-dark terminal palette.
func DefaultPalette() Palette {
	return Palette{
		Foreground: tcell.NewRGBColor(0xd0, 0xd0, 0xd0),
		Background: tcell.NewRGBColor(0x1c, 0x1c, 0x1c),
	}
}

// Marker owns the dim style and applies it to surfaces. Reapplying an
// unchanged range set to the same surface is a no-op.
type Marker struct {
	mu      sync.Mutex
	style   tcell.Style
	opacity float64
	palette Palette
	applied map[Surface][]Range
}

// NewMarker builds a marker whose dim style shows text at the given opacity
// against the palette background.
func NewMarker(opacity float64, palette Palette) *Marker {
	m := &Marker{
		palette: palette,
		applied: make(map[Surface][]Range),
	}
	m.opacity = opacity
	m.style = dimStyle(opacity, palette)
	return m
}

// Opacity returns the opacity the current style was built with.
func (m *Marker) Opacity() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

// Style returns the current dim style.
func (m *Marker) Style() tcell.Style {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.style
}

// Apply paints the ranges on the surface. Idempotent per surface: the same
// ranges are not re-sent.
func (m *Marker) Apply(s Surface, ranges []Range) {
	if s == nil {
		return
	}

	m.mu.Lock()
	if EqualRanges(m.applied[s], ranges) {
		m.mu.Unlock()
		return
	}
	m.applied[s] = append([]Range(nil), ranges...)
	style := m.style
	m.mu.Unlock()

	s.SetDimmedRanges(ranges, style)
}

// Clear removes the dim decoration from the surface. Equivalent to applying
// an empty range set. Always sends the clear, even when the memo has no
// entry: Recreate drops the memo, so a surface painted before a style
// rebuild would otherwise keep its stale decoration.
func (m *Marker) Clear(s Surface) {
	if s == nil {
		return
	}

	m.mu.Lock()
	delete(m.applied, s)
	style := m.style
	m.mu.Unlock()

	s.SetDimmedRanges(nil, style)
}

// Reset forgets every applied-range memo, including entries for surfaces
// that are no longer visible.
func (m *Marker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = make(map[Surface][]Range)
}

// Recreate disposes the current style and builds a new one at the given
// opacity. Style parameters are immutable post-creation, so opacity changes
// while active must come through here. Applied-range memos are dropped so
// the next Apply repaints with the new style.
func (m *Marker) Recreate(opacity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.opacity = opacity
	m.style = dimStyle(opacity, m.palette)
	m.applied = make(map[Surface][]Range)
}

// dimStyle blends the palette foreground toward the background, keeping
// only the given fraction of the foreground visible.
func dimStyle(opacity float64, p Palette) tcell.Style {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}

	fg := toColorful(p.Foreground)
	bg := toColorful(p.Background)
	dimmed := bg.BlendLab(fg, opacity).Clamped()

	r, g, b := dimmed.RGB255()
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))).
		Background(p.Background).
		Dim(true)
}

func toColorful(c tcell.Color) colorful.Color {
	r, g, b := c.TrueColor().RGB()
	return colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}
