package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/limelight/internal/event"
	"github.com/dshills/limelight/internal/logging"
)

// DefaultReloadDebounce coalesces the event bursts editors produce when
// saving a file (truncate, write, rename).
const DefaultReloadDebounce = 100 * time.Millisecond

// Watcher reloads the settings store when its backing file changes on
// disk and publishes the changed keys on the event bus.
type Watcher struct {
	store *Store
	bus   *event.Bus
	log   *logging.Logger

	fsw      *fsnotify.Watcher
	debounce *event.Debouncer

	mu       sync.Mutex
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadDebounce overrides the reload debounce window.
func WithReloadDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = event.NewDebouncer(d)
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(log *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if log != nil {
			w.log = log.WithComponent("settings")
		}
	}
}

// NewWatcher starts watching the store's backing file. The parent
// directory is watched rather than the file itself, so atomic
// save-by-rename from external editors is still observed.
func NewWatcher(store *Store, bus *event.Bus, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting settings watcher: %w", err)
	}

	w := &Watcher{
		store:    store,
		bus:      bus,
		log:      logging.Discard(),
		fsw:      fsw,
		debounce: event.NewDebouncer(DefaultReloadDebounce),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dir := filepath.Dir(store.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("creating settings dir: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching settings dir %s: %w", dir, err)
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.debounce.Cancel()
	err := w.fsw.Close()
	w.closedWg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	target := filepath.Clean(w.store.Path())

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			w.debounce.Trigger(w.reload)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("settings watch error: %v", err)
		}
	}
}

// reload re-reads the settings file, swaps it into the store, and
// publishes the changed keys. Transient read or parse failures are
// logged and skipped; the previous values stay live.
func (w *Watcher) reload() {
	raw, err := os.ReadFile(w.store.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			w.log.Warn("reloading settings: %v", err)
		}
		return
	}

	nested := make(map[string]any)
	if err := toml.Unmarshal(raw, &nested); err != nil {
		w.log.Warn("settings file is malformed, keeping previous values: %v", err)
		return
	}

	changed := w.store.Replace(nested)
	if len(changed) == 0 {
		return
	}

	w.log.Debug("settings reloaded, %d keys changed", len(changed))
	w.bus.Publish(event.TopicConfigChanged, event.ConfigChanged{Keys: changed})
}
