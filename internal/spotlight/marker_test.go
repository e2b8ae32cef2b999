package spotlight

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

type fakeSurface struct {
	calls  int
	ranges []Range
	style  tcell.Style
}

func (f *fakeSurface) SetDimmedRanges(ranges []Range, style tcell.Style) {
	f.calls++
	f.ranges = append([]Range(nil), ranges...)
	f.style = style
}

func TestMarkerApplyIdempotent(t *testing.T) {
	m := NewMarker(0.5, DefaultPalette())
	s := &fakeSurface{}

	ranges := []Range{{0, 4}, {6, 9}}
	m.Apply(s, ranges)
	m.Apply(s, ranges)
	m.Apply(s, ranges)

	if s.calls != 1 {
		t.Errorf("surface painted %d times for identical ranges, want 1", s.calls)
	}

	m.Apply(s, []Range{{0, 2}})
	if s.calls != 2 {
		t.Errorf("surface painted %d times after range change, want 2", s.calls)
	}
}

func TestMarkerClear(t *testing.T) {
	m := NewMarker(0.5, DefaultPalette())
	s := &fakeSurface{}

	m.Apply(s, []Range{{1, 3}})
	m.Clear(s)

	if s.calls != 2 {
		t.Fatalf("surface painted %d times, want 2", s.calls)
	}
	if len(s.ranges) != 0 {
		t.Errorf("Clear left ranges %v on the surface", s.ranges)
	}

	// Clear sends even without a memo entry, so a surface the marker has
	// lost track of still ends up clean.
	untracked := &fakeSurface{}
	m.Clear(untracked)
	if untracked.calls != 1 {
		t.Errorf("Clear on untracked surface painted %d times, want 1", untracked.calls)
	}
}

func TestMarkerClearAfterRecreate(t *testing.T) {
	m := NewMarker(0.5, DefaultPalette())
	s := &fakeSurface{}

	m.Apply(s, []Range{{0, 1}, {3, 9}})
	m.Recreate(0.8)
	m.Clear(s)

	if len(s.ranges) != 0 {
		t.Errorf("surface still dimmed after Clear: %v", s.ranges)
	}
	if s.calls != 2 {
		t.Errorf("surface painted %d times, want 2", s.calls)
	}
}

func TestMarkerReset(t *testing.T) {
	m := NewMarker(0.5, DefaultPalette())
	s := &fakeSurface{}

	ranges := []Range{{2, 5}}
	m.Apply(s, ranges)
	m.Reset()

	// Reset forgets the memo, so identical ranges repaint.
	m.Apply(s, ranges)
	if s.calls != 2 {
		t.Errorf("surface painted %d times after Reset, want 2", s.calls)
	}
}

func TestMarkerRecreate(t *testing.T) {
	m := NewMarker(0.2, DefaultPalette())
	s := &fakeSurface{}

	ranges := []Range{{0, 4}}
	m.Apply(s, ranges)
	oldStyle := s.style

	m.Recreate(0.8)
	if m.Opacity() != 0.8 {
		t.Errorf("Opacity() = %v after Recreate, want 0.8", m.Opacity())
	}

	// Recreate drops the applied memo: the same ranges repaint with the
	// new style.
	m.Apply(s, ranges)
	if s.calls != 2 {
		t.Fatalf("surface painted %d times, want 2", s.calls)
	}
	if s.style == oldStyle {
		t.Error("style unchanged after Recreate with different opacity")
	}
}

func TestMarkerNilSurface(t *testing.T) {
	m := NewMarker(0.5, DefaultPalette())

	// Must not panic.
	m.Apply(nil, []Range{{0, 1}})
	m.Clear(nil)
}

func TestDimStyleOpacityClamping(t *testing.T) {
	p := DefaultPalette()

	low := dimStyle(-0.5, p)
	high := dimStyle(2.0, p)
	if low == high {
		t.Error("clamped extremes produced identical styles")
	}

	fgLow, _, _ := low.Decompose()
	bg := toColorful(p.Background)
	gotLow := toColorful(fgLow)
	if diff := (gotLow.R - bg.R) + (gotLow.G - bg.G) + (gotLow.B - bg.B); diff > 0.05 {
		t.Errorf("opacity 0 foreground should sit on the background, diff %v", diff)
	}
}
