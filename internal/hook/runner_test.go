package hook

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/limelight/internal/config"
)

func writeHook(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMissingDirIsEmptyRunner(t *testing.T) {
	r, err := NewRunner(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}

	// Invoking with no scripts is a no-op.
	r.OnEnter(config.Default())
	r.OnExit()
}

func TestHooksObserveTransitions(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "track.lua", `
entered = 0
exited = 0
seen_opacity = 0

function on_enter(cfg)
    entered = entered + 1
    seen_opacity = cfg.opacity
end

function on_exit()
    exited = exited + 1
end
`)

	r, err := NewRunner(dir)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}

	cfg := config.Default()
	cfg.Opacity = 0.5
	r.OnEnter(cfg)
	r.OnExit()
	r.OnEnter(cfg)

	s := r.scripts[0]
	if got := s.L.GetGlobal("entered").String(); got != "2" {
		t.Errorf("entered = %s, want 2", got)
	}
	if got := s.L.GetGlobal("exited").String(); got != "1" {
		t.Errorf("exited = %s, want 1", got)
	}
	if got := s.L.GetGlobal("seen_opacity").String(); got != "0.5" {
		t.Errorf("seen_opacity = %s, want 0.5", got)
	}
}

func TestConfigTableFields(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "fields.lua", `
function on_enter(cfg)
    line_numbers = cfg.line_numbers
    single_view = cfg.single_view
    center = cfg.center_layout
end
`)

	r, err := NewRunner(dir)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()

	cfg := config.Default()
	cfg.LineNumbers = config.PolicyRelative
	cfg.SingleViewOnly = true
	r.OnEnter(cfg)

	s := r.scripts[0]
	if got := s.L.GetGlobal("line_numbers").String(); got != "relative" {
		t.Errorf("line_numbers = %s, want relative", got)
	}
	if got := s.L.GetGlobal("single_view").String(); got != "true" {
		t.Errorf("single_view = %s, want true", got)
	}
	if got := s.L.GetGlobal("center").String(); got != "true" {
		t.Errorf("center = %s, want true", got)
	}
}

func TestBrokenScriptIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "a_broken.lua", `this is not lua (`)
	writeHook(t, dir, "b_good.lua", `
ran = false
function on_enter(cfg) ran = true end
`)

	r, err := NewRunner(dir)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (broken script skipped)", r.Len())
	}

	r.OnEnter(config.Default())
	if got := r.scripts[0].L.GetGlobal("ran").String(); got != "true" {
		t.Error("surviving script did not run")
	}
}

func TestScriptWithoutHooksIsDropped(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "plain.lua", `local x = 1 + 1`)

	r, err := NewRunner(dir)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for hookless script", r.Len())
	}
}

func TestFailingHookDoesNotBlockOthers(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "a_fails.lua", `
function on_enter(cfg) error("boom") end
`)
	writeHook(t, dir, "b_runs.lua", `
ran = false
function on_enter(cfg) ran = true end
`)

	r, err := NewRunner(dir)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	r.OnEnter(config.Default())
	if got := r.scripts[1].L.GetGlobal("ran").String(); got != "true" {
		t.Error("second hook did not run after first failed")
	}
}

func TestSandboxRemovesLoaders(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "probe.lua", `
blocked = dofile == nil and loadfile == nil and load == nil and loadstring == nil
function on_enter(cfg) end
`)

	r, err := NewRunner(dir)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if got := r.scripts[0].L.GetGlobal("blocked").String(); got != "true" {
		t.Error("loader globals still reachable from scripts")
	}
}

func TestRunawayHookTimesOut(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "spin.lua", `
function on_enter(cfg)
    while true do end
end
`)

	r, err := NewRunner(dir, WithCallTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer r.Close()

	done := make(chan struct{})
	go func() {
		r.OnEnter(config.Default())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runaway hook was not cancelled")
	}
}
