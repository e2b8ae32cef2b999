package settings

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dshills/limelight/internal/event"
	"github.com/dshills/limelight/internal/event/topic"
)

// changeRecorder captures published config-change events.
type changeRecorder struct {
	mu   sync.Mutex
	keys [][]string
}

func (r *changeRecorder) record(_ topic.Topic, payload any) {
	cc, ok := payload.(event.ConfigChanged)
	if !ok {
		return
	}
	r.mu.Lock()
	r.keys = append(r.keys, cc.Keys)
	r.mu.Unlock()
}

func (r *changeRecorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcherPublishesChangedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("[limelight]\nopacity = 0.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	bus := event.NewBus()
	rec := &changeRecorder{}
	if _, err := bus.SubscribeFunc(event.TopicConfigChanged, rec.record); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	w, err := NewWatcher(store, bus, WithReloadDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[limelight]\nopacity = 0.6\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return len(rec.snapshot()) > 0 }) {
		t.Fatal("no config change published")
	}

	events := rec.snapshot()
	if got := events[0]; len(got) != 1 || got[0] != "limelight.opacity" {
		t.Errorf("changed keys = %v, want [limelight.opacity]", got)
	}
	if got := store.Get("limelight.opacity", 0.0); got != 0.6 {
		t.Errorf("store value after reload = %v, want 0.6", got)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	bus := event.NewBus()
	rec := &changeRecorder{}
	if _, err := bus.SubscribeFunc(event.TopicConfigChanged, rec.record); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	w, err := NewWatcher(store, bus, WithReloadDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(150 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("unrelated file change published %v", got)
	}
}

func TestWatcherKeepsValuesOnMalformedRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("[limelight]\nopacity = 0.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	bus := event.NewBus()
	w, err := NewWatcher(store, bus, WithReloadDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(150 * time.Millisecond)
	if got := store.Get("limelight.opacity", 0.0); got != 0.3 {
		t.Errorf("value after malformed rewrite = %v, want previous 0.3", got)
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "settings.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	w, err := NewWatcher(store, event.NewBus())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
