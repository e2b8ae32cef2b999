// Package persist provides a small TOML-file key/value store for state
// that must survive process restarts, such as the crash marker and the
// remembered focus zoom level.
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/limelight/internal/host"
)

// Ensure Store implements host.KVStore.
var _ host.KVStore = (*Store)(nil)

// Store is a file-backed key/value store. Keys use dot notation and map
// to nested TOML tables. Every mutation is written through to disk with
// an atomic temp-and-rename, so a crash mid-write never corrupts the
// previous state.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]any
}

// Open loads the store at path, creating an empty one if the file does
// not exist. A malformed file is treated as empty rather than fatal:
// losing remembered state is recoverable, refusing to start is not.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]any),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file %s: %w", path, err)
	}

	if uerr := toml.Unmarshal(raw, &s.data); uerr != nil {
		s.data = make(map[string]any)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// GetBool returns the boolean at key, or def when absent or mistyped.
func (s *Store) GetBool(key string, def bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := getPath(s.data, key).(bool); ok {
		return v
	}
	return def
}

// SetBool stores a boolean at key and flushes to disk.
func (s *Store) SetBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setPath(s.data, key, value)
	return s.flushLocked()
}

// GetFloat returns the float at key, or def when absent or mistyped.
// TOML decodes whole numbers as int64, which is accepted here.
func (s *Store) GetFloat(key string, def float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch v := getPath(s.data, key).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return def
}

// SetFloat stores a float at key and flushes to disk.
func (s *Store) SetFloat(key string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setPath(s.data, key, value)
	return s.flushLocked()
}

// Delete removes key and flushes to disk. Deleting an absent key is not
// an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !deletePath(s.data, key) {
		return nil
	}
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	raw, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// getPath walks nested tables following the dot segments of key.
func getPath(data map[string]any, key string) any {
	segs := strings.Split(key, ".")
	cur := data
	for i, seg := range segs {
		v, ok := cur[seg]
		if !ok {
			return nil
		}
		if i == len(segs)-1 {
			return v
		}
		cur, ok = v.(map[string]any)
		if !ok {
			return nil
		}
	}
	return nil
}

// setPath writes value at the dot path, creating intermediate tables.
// A non-table intermediate value is replaced by a table.
func setPath(data map[string]any, key string, value any) {
	segs := strings.Split(key, ".")
	cur := data
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
}

// deletePath removes the value at the dot path and prunes tables left
// empty. Reports whether anything was removed.
func deletePath(data map[string]any, key string) bool {
	segs := strings.Split(key, ".")
	if len(segs) == 1 {
		if _, ok := data[segs[0]]; !ok {
			return false
		}
		delete(data, segs[0])
		return true
	}

	sub, ok := data[segs[0]].(map[string]any)
	if !ok {
		return false
	}
	removed := deletePath(sub, strings.Join(segs[1:], "."))
	if removed && len(sub) == 0 {
		delete(data, segs[0])
	}
	return removed
}
