// Package prefs persists rolo's user preferences in ~/.config/rolo/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme    string `toml:"theme"`
	LastView string `toml:"last_view,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/rolo/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Missing or unreadable files yield defaults.
func Load(path string) (Prefs, error) {
	prefs := Prefs{Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Theme: defaultTheme}, nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	prefs.LastView = strings.TrimSpace(prefs.LastView)

	return prefs, nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// Keeper serializes updates to one prefs file. The UI changes the theme and
// the location saves the last view; both go through the same Keeper so one
// write never drops the other's field.
type Keeper struct {
	mu    sync.Mutex
	path  string
	prefs Prefs
}

// NewKeeper starts from already loaded prefs.
func NewKeeper(path string, p Prefs) *Keeper {
	return &Keeper{path: path, prefs: p}
}

// Prefs returns the current values.
func (k *Keeper) Prefs() Prefs {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.prefs
}

// SetTheme stores and saves the theme name.
func (k *Keeper) SetTheme(name string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	next := k.prefs
	next.Theme = name
	return k.save(next)
}

// SetLastView stores and saves the last location.
func (k *Keeper) SetLastView(location string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	next := k.prefs
	next.LastView = location
	return k.save(next)
}

func (k *Keeper) save(next Prefs) error {
	if next == k.prefs {
		return nil
	}
	if err := Save(k.path, next); err != nil {
		return err
	}
	k.prefs = next
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
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
