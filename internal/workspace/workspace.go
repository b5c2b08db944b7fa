package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Pikatsuto/raspberry-builds/internal/foundation/errors"
	"github.com/Pikatsuto/raspberry-builds/internal/logfields"
)

// Manager owns a set of generated-output directories.
type Manager struct {
	dirs []string
}

// NewManager creates a manager for dirs. Duplicates are dropped and parents are
// ordered before their children.
func NewManager(dirs ...string) *Manager {
	seen := make(map[string]bool, len(dirs))
	clean := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = filepath.Clean(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		clean = append(clean, d)
	}
	sort.SliceStable(clean, func(i, j int) bool {
		return depth(clean[i]) < depth(clean[j])
	})
	return &Manager{dirs: clean}
}

func depth(p string) int {
	return strings.Count(p, string(filepath.Separator))
}

// Dirs returns the managed directories in reset order.
func (m *Manager) Dirs() []string {
	out := make([]string, len(m.dirs))
	copy(out, m.dirs)
	return out
}

// Reset creates every managed directory and removes all entries inside it,
// leaving the directory itself in place. A directory that does not exist yet is
// simply created.
func (m *Manager) Reset() error {
	for _, dir := range m.dirs {
		if err := resetDir(dir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to reset output directory").
				WithContext("path", dir).
				Fatal().
				Build()
		}
		slog.Debug("Reset output directory", logfields.Path(dir))
	}
	return nil
}

func resetDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Contains reports whether path lies inside a managed directory.
func (m *Manager) Contains(path string) bool {
	path = filepath.Clean(path)
	for _, dir := range m.dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != "." && filepath.IsLocal(rel) {
			return true
		}
	}
	return false
}

// WriteFile writes data to path, which must lie inside a managed directory.
// Missing parent directories are created.
func (m *Manager) WriteFile(path string, data []byte) error {
	if !m.Contains(path) {
		return errors.NewError(errors.CategoryInternal, "refusing to write outside output directories").
			WithContext("path", path).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create parent of %s: %w", path, err)
	}
	//nolint:gosec // generated content is served publicly
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
