// Package fs provides the file system module source.
package fs

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ModuleSource = (*ModuleSource)(nil)

// ModuleSource reads module files from the local file system.
type ModuleSource struct{}

// NewModuleSource creates a new ModuleSource.
func NewModuleSource() *ModuleSource {
	return &ModuleSource{}
}

// List returns the absolute paths of the regular files directly inside
// folder whose base name matches pattern, sorted lexically.
func (s *ModuleSource) List(folder, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.Join(domain.ErrInvalidPattern, zerr.With(err, "pattern", pattern))
	}

	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve module folder"), "folder", folder)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list module folder"), "folder", abs)
	}

	var paths []string
	for _, entry := range entries {
		// The pattern was validated above, so Match cannot fail here.
		if ok, _ := filepath.Match(pattern, entry.Name()); !ok {
			continue
		}
		path := filepath.Join(abs, entry.Name())
		if isRegularFile(entry, path) {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)

	return paths, nil
}

// isRegularFile reports whether entry is a regular file or a symlink to one.
func isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Read loads the module at path and computes its content digest.
func (s *ModuleSource) Read(path string) (*domain.ModuleImage, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the watched folder
	if err != nil {
		return nil, errors.Join(domain.ErrModuleRead, zerr.With(err, "path", path))
	}

	return &domain.ModuleImage{
		Path:   path,
		Data:   data,
		Digest: Digest(data),
	}, nil
}

// Digest returns the XXHash of a module's content.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}
