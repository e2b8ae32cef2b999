// Package settings provides a TOML-file-backed settings store with live
// reload. Settings use dot-notation keys flattened from nested TOML
// tables ("ui.minimap.enabled" from [ui.minimap] enabled).
package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/limelight/internal/host"
)

// Ensure Store implements host.Settings.
var _ host.Settings = (*Store)(nil)

// Store holds settings loaded from a TOML file. Global-scope writes are
// persisted back to the file; view-scope writes land in an in-memory
// overlay that shadows the file for reads and vanishes on restart.
type Store struct {
	mu      sync.RWMutex
	path    string
	values  map[string]any
	overlay map[string]any
}

// Load reads the settings file at path. A missing file yields an empty
// store; a malformed file is an error, since silently dropping the
// user's configuration would be worse than failing loudly.
func Load(path string) (*Store, error) {
	s := &Store{
		path:    path,
		values:  make(map[string]any),
		overlay: make(map[string]any),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	nested := make(map[string]any)
	if err := toml.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("parsing settings file %s: %w", path, err)
	}
	s.values = Flatten(nested)
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for key. The view-scope overlay wins over the
// file-backed value; def is returned when neither has the key.
func (s *Store) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.overlay[key]; ok {
		return v
	}
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Set writes value for key. Global-scope writes persist to the file;
// view-scope writes only update the overlay.
func (s *Store) Set(_ context.Context, key string, value any, scope host.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope == host.ScopeView {
		s.overlay[key] = value
		return nil
	}

	s.values[key] = value
	return s.flushLocked()
}

// Keys returns every known key, file-backed and overlay, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.values)+len(s.overlay))
	for k := range s.values {
		seen[k] = true
	}
	for k := range s.overlay {
		seen[k] = true
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Replace swaps the file-backed values wholesale and returns the keys
// whose values changed, sorted. The overlay is untouched. Used by the
// watcher after an external edit to the settings file.
func (s *Store) Replace(nested map[string]any) []string {
	flat := Flatten(nested)

	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	for k, v := range flat {
		if old, ok := s.values[k]; !ok || !reflect.DeepEqual(old, v) {
			changed = append(changed, k)
		}
	}
	for k := range s.values {
		if _, ok := flat[k]; !ok {
			changed = append(changed, k)
		}
	}

	s.values = flat
	sort.Strings(changed)
	return changed
}

func (s *Store) flushLocked() error {
	raw, err := toml.Marshal(Nest(s.values))
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}

// Flatten converts nested TOML tables into dot-notation keys. Leaf
// values keep their decoded types.
func Flatten(nested map[string]any) map[string]any {
	flat := make(map[string]any)
	flattenInto(flat, "", nested)
	return flat
}

func flattenInto(flat map[string]any, prefix string, nested map[string]any) {
	for k, v := range nested {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flattenInto(flat, key, sub)
			continue
		}
		flat[key] = v
	}
}

// Nest converts dot-notation keys back into nested tables for encoding.
// A key that collides with a table prefix replaces the table.
func Nest(flat map[string]any) map[string]any {
	nested := make(map[string]any)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		segs := strings.Split(key, ".")
		cur := nested
		for _, seg := range segs[:len(segs)-1] {
			next, ok := cur[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				cur[seg] = next
			}
			cur = next
		}
		cur[segs[len(segs)-1]] = flat[key]
	}
	return nested
}
