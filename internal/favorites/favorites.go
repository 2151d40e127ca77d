// Package favorites persists the set of contact ids the user has starred.
// The set lives in a single JSON file holding an array of integer ids.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Set is an ordered set of contact ids. Values are immutable: every mutating
// method returns a new Set and leaves the receiver untouched.
type Set struct {
	ids []int64
}

// NewSet builds a Set from ids, dropping duplicates and keeping first-seen order.
func NewSet(ids ...int64) Set {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return Set{ids: out}
}

// Has reports whether id is in the set.
func (s Set) Has(id int64) bool {
	return slices.Contains(s.ids, id)
}

// Len returns the number of ids.
func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the ids in insertion order.
func (s Set) IDs() []int64 {
	return slices.Clone(s.ids)
}

// Toggle flips membership of id.
func (s Set) Toggle(id int64) Set {
	if s.Has(id) {
		return s.Remove(id)
	}
	next := make([]int64, len(s.ids), len(s.ids)+1)
	copy(next, s.ids)
	return Set{ids: append(next, id)}
}

// Remove drops id. The result equals s when id is absent.
func (s Set) Remove(id int64) Set {
	if !s.Has(id) {
		return s
	}
	next := make([]int64, 0, len(s.ids)-1)
	for _, v := range s.ids {
		if v != id {
			next = append(next, v)
		}
	}
	return Set{ids: next}
}

// Storage is the durable slot holding the set.
type Storage interface {
	Load() (Set, error)
	Save(Set) error
}

// DefaultPath is where the terminal client keeps favorites.
const DefaultPath = "~/.local/share/rolo/favorites.json"

// File stores the set as a JSON array at Path.
type File struct {
	Path string
}

var _ Storage = (*File)(nil)

// Load reads the set. A missing file yields an empty set and no error. Corrupt
// content also yields an empty set, together with an error for the caller to log.
func (f *File) Load() (Set, error) {
	path, err := expandPath(f.Path)
	if err != nil {
		return Set{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Set{}, nil
		}
		return Set{}, fmt.Errorf("read favorites: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return Set{}, nil
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return Set{}, fmt.Errorf("parse favorites %s: %w", path, err)
	}
	return NewSet(ids...), nil
}

// Save overwrites the slot with s. The write goes through a temp file and a
// rename so readers never see a truncated array.
func (f *File) Save(s Set) error {
	path, err := expandPath(f.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create favorites dir: %w", err)
	}

	ids := s.IDs()
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".favorites-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write favorites: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close favorites: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace favorites: %w", err)
	}
	return nil
}

// Memory keeps the set in process. Err, when set, is returned by Save.
type Memory struct {
	mu    sync.Mutex
	set   Set
	saves int
	Err   error
}

var _ Storage = (*Memory)(nil)

// Load returns the last saved set.
func (m *Memory) Load() (Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set, nil
}

// Save stores s unless Err is set.
func (m *Memory) Save(s Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.set = s
	m.saves++
	return nil
}

// Saves counts successful writes.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = DefaultPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
