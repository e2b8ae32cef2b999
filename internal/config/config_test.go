package config

import (
	"testing"

	"github.com/dshills/limelight/internal/host/hosttest"
)

func TestReadDefaults(t *testing.T) {
	h := hosttest.New()

	cfg := Read(h.Settings())

	if cfg != Default() {
		t.Errorf("Read on empty store = %+v, want defaults %+v", cfg, Default())
	}
}

func TestReadOpacityClamping(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"in range", 0.5, 0.5},
		{"below minimum", 0.01, MinOpacity},
		{"above maximum", 1.5, MaxOpacity},
		{"negative", -3.0, MinOpacity},
		{"integer from decoder", int64(1), MaxOpacity},
		{"wrong type falls back to default", "dark", 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hosttest.New()
			h.SetSetting(KeyOpacity, tt.value)

			cfg := Read(h.Settings())
			if cfg.Opacity != tt.want {
				t.Errorf("Opacity = %v, want %v", cfg.Opacity, tt.want)
			}
		})
	}
}

func TestReadLineNumberPolicy(t *testing.T) {
	tests := []struct {
		value string
		want  LineNumberPolicy
	}{
		{"off", PolicyOff},
		{"on", PolicyOn},
		{"relative", PolicyRelative},
		{"inherit", PolicyInherit},
		{"bogus", PolicyInherit},
	}

	for _, tt := range tests {
		h := hosttest.New()
		h.SetSetting(KeyLineNumbers, tt.value)

		cfg := Read(h.Settings())
		if cfg.LineNumbers != tt.want {
			t.Errorf("LineNumbers for %q = %v, want %v", tt.value, cfg.LineNumbers, tt.want)
		}
	}
}

func TestReadBoolSettings(t *testing.T) {
	h := hosttest.New()
	h.SetSetting(KeyFullScreen, true)
	h.SetSetting(KeyCenterLayout, false)
	h.SetSetting(KeyHideMinimap, false)
	h.SetSetting(KeySingleViewOnly, true)

	cfg := Read(h.Settings())

	if !cfg.FullScreen || cfg.CenterLayout || cfg.HideMinimap || !cfg.SingleViewOnly {
		t.Errorf("bool settings misread: %+v", cfg)
	}
}

func TestPolicyRoundTrip(t *testing.T) {
	for _, p := range []LineNumberPolicy{PolicyInherit, PolicyOff, PolicyOn, PolicyRelative} {
		if got := ParseLineNumberPolicy(p.String()); got != p {
			t.Errorf("ParseLineNumberPolicy(%q) = %v, want %v", p.String(), got, p)
		}
	}
}
