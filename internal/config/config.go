// Package config reads the typed limelight configuration from the host
// settings store.
//
// Read is a pure function over the store: no caching, no side effects, every
// call reflects the store's current state. Out-of-range values are clamped,
// never rejected, so a broken settings file can never block entering focus
// mode.
package config

import (
	"github.com/dshills/limelight/internal/host"
)

// Settings keys owned by limelight.
const (
	KeyOpacity        = "limelight.opacity"
	KeyLineNumbers    = "limelight.lineNumbers"
	KeyFullScreen     = "limelight.fullScreen"
	KeyCenterLayout   = "limelight.centerLayout"
	KeyHideMinimap    = "limelight.hideMinimap"
	KeySingleViewOnly = "limelight.singleView"

	// KeyPrefix scopes configuration-change events to limelight settings.
	KeyPrefix = "limelight."
)

// Opacity bounds. Values outside are clamped on read.
const (
	MinOpacity = 0.1
	MaxOpacity = 0.9
)

// LineNumberPolicy selects the line-number style applied while focused.
type LineNumberPolicy int

const (
	// PolicyInherit leaves each view's line-number style untouched.
	PolicyInherit LineNumberPolicy = iota

	// PolicyOff hides line numbers.
	PolicyOff

	// PolicyOn shows absolute line numbers.
	PolicyOn

	// PolicyRelative shows relative line numbers.
	PolicyRelative
)

// String returns the policy's settings value.
func (p LineNumberPolicy) String() string {
	switch p {
	case PolicyOff:
		return "off"
	case PolicyOn:
		return "on"
	case PolicyRelative:
		return "relative"
	default:
		return "inherit"
	}
}

// ParseLineNumberPolicy parses a settings value. Unknown values map to
// inherit.
func ParseLineNumberPolicy(s string) LineNumberPolicy {
	switch s {
	case "off":
		return PolicyOff
	case "on":
		return PolicyOn
	case "relative":
		return PolicyRelative
	default:
		return PolicyInherit
	}
}

// FocusConfig is the typed, clamped limelight configuration. It is a value
// snapshot; mutating it does not write back to the store.
type FocusConfig struct {
	// Opacity is the dim emphasis level in [MinOpacity, MaxOpacity].
	Opacity float64

	// LineNumbers is the line-number style applied while focused.
	LineNumbers LineNumberPolicy

	// FullScreen requests full-screen on enter.
	FullScreen bool

	// CenterLayout requests centered layout on enter.
	CenterLayout bool

	// HideMinimap hides the minimap on enter.
	HideMinimap bool

	// SingleViewOnly collapses all view groups into one on enter.
	SingleViewOnly bool
}

// Default returns the configuration used when the store has no limelight
// keys.
func Default() FocusConfig {
	return FocusConfig{
		Opacity:        0.3,
		LineNumbers:    PolicyInherit,
		FullScreen:     false,
		CenterLayout:   true,
		HideMinimap:    true,
		SingleViewOnly: false,
	}
}

// Read builds a FocusConfig from the settings store.
func Read(s host.Settings) FocusConfig {
	def := Default()

	return FocusConfig{
		Opacity:        clampOpacity(floatValue(s.Get(KeyOpacity, def.Opacity), def.Opacity)),
		LineNumbers:    ParseLineNumberPolicy(stringValue(s.Get(KeyLineNumbers, def.LineNumbers.String()), def.LineNumbers.String())),
		FullScreen:     boolValue(s.Get(KeyFullScreen, def.FullScreen), def.FullScreen),
		CenterLayout:   boolValue(s.Get(KeyCenterLayout, def.CenterLayout), def.CenterLayout),
		HideMinimap:    boolValue(s.Get(KeyHideMinimap, def.HideMinimap), def.HideMinimap),
		SingleViewOnly: boolValue(s.Get(KeySingleViewOnly, def.SingleViewOnly), def.SingleViewOnly),
	}
}

func clampOpacity(v float64) float64 {
	if v < MinOpacity {
		return MinOpacity
	}
	if v > MaxOpacity {
		return MaxOpacity
	}
	return v
}

// floatValue coerces numeric settings values; TOML decoders hand back
// int64 for whole numbers.
func floatValue(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

func boolValue(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func stringValue(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}
