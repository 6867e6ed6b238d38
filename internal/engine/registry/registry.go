// Package registry holds the authoritative method identity to address table.
package registry

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

// MethodScanner extracts the reload-eligible methods of a module.
type MethodScanner interface {
	Scan(data []byte) ([]domain.Method, error)
}

// Registry maps method identities to their current entry address. Entries
// are created on first sight, updated in place on patch, and never removed.
type Registry struct {
	source     ports.ModuleSource
	scanner    MethodScanner
	redirector ports.Redirector
	logger     ports.Logger

	mu      sync.Mutex
	entries map[domain.MethodKey]domain.Address
}

// NewRegistry creates an empty Registry.
func NewRegistry(
	source ports.ModuleSource,
	scanner MethodScanner,
	redirector ports.Redirector,
	logger ports.Logger,
) *Registry {
	return &Registry{
		source:     source,
		scanner:    scanner,
		redirector: redirector,
		logger:     logger,
		entries:    make(map[domain.MethodKey]domain.Address),
	}
}

// Initialize scans every module directly inside root whose name matches
// pattern and inserts each discovered identity. A module that cannot be read
// or scanned is logged and skipped. When two modules declare the same
// identity the later one wins. Initialize returns the content digest of
// every module it scanned successfully, keyed by path.
func (r *Registry) Initialize(ctx context.Context, root, pattern string) (map[string]uint64, error) {
	paths, err := r.source.List(root, pattern)
	if err != nil {
		return nil, errors.Join(domain.ErrConfiguration, zerr.With(err, "root", root))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	digests := make(map[string]uint64, len(paths))
	origin := make(map[domain.MethodKey]string)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return digests, err
		}

		r.logger.Info(fmt.Sprintf("module discovered: %s", path))

		img, err := r.source.Read(path)
		if err != nil {
			r.logger.Error(zerr.With(zerr.Wrap(err, "skipping module"), "path", path))
			continue
		}

		methods, err := r.scanner.Scan(img.Data)
		if err != nil {
			r.logger.Error(zerr.With(zerr.Wrap(err, "skipping module"), "path", path))
			continue
		}

		for _, m := range methods {
			if prev, ok := origin[m.Key]; ok {
				r.logger.Warn(fmt.Sprintf("method %s from %s replaces the one found in %s",
					m.Key, filepath.Base(path), filepath.Base(prev)))
			}
			origin[m.Key] = path
			r.entries[m.Key] = m.Address
			r.logger.Info(fmt.Sprintf("method found: %s at %s", m.Key, m.Address))
		}
		digests[path] = img.Digest
	}

	return digests, nil
}

// Apply reconciles a rescanned module with the registry. A key with a new
// address is patched by redirecting the old address to the new one; an
// unknown key is inserted without a redirect; an equal address is left
// alone. A failed redirect keeps the old address for that key and does not
// stop the remaining keys. The returned error joins every failure.
func (r *Registry) Apply(ctx context.Context, methods []domain.Method) (domain.ApplyReport, error) {
	var report domain.ApplyReport
	if err := ctx.Err(); err != nil {
		return report, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, m := range methods {
		old, ok := r.entries[m.Key]
		switch {
		case !ok:
			r.entries[m.Key] = m.Address
			report.Inserted = append(report.Inserted, m.Key)
			r.logger.Info(fmt.Sprintf("new method: %s at %s", m.Key, m.Address))
		case old == m.Address:
			report.Unchanged = append(report.Unchanged, m.Key)
		default:
			if err := r.redirector.Redirect(old, m.Address); err != nil {
				err = patchError(err, m.Key, old, m.Address)
				report.Failed = append(report.Failed, domain.KeyFailure{Key: m.Key, Err: err})
				errs = append(errs, err)
				continue
			}
			r.entries[m.Key] = m.Address
			report.Patched = append(report.Patched, m.Key)
			r.logger.Info(fmt.Sprintf("method patched: %s %s -> %s", m.Key, old, m.Address))
		}
	}

	return report, errors.Join(errs...)
}

func patchError(cause error, key domain.MethodKey, from, to domain.Address) error {
	err := zerr.With(zerr.Wrap(cause, ""), "key", key.String())
	err = zerr.With(err, "from", from.String())
	err = zerr.With(err, "to", to.String())
	return errors.Join(domain.ErrPatchApplication, err)
}

// Lookup returns the current address of key.
func (r *Registry) Lookup(key domain.MethodKey) (domain.Address, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addr, ok := r.entries[key]
	return addr, ok
}

// Entries returns a snapshot of the registry sorted by key.
func (r *Registry) Entries() []domain.RegistryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.RegistryEntry, 0, len(r.entries))
	for key, addr := range r.entries {
		out = append(out, domain.RegistryEntry{Key: key, Address: addr})
	}
	slices.SortFunc(out, func(a, b domain.RegistryEntry) int {
		return cmp.Compare(a.Key.String(), b.Key.String())
	})
	return out
}

// Len reports the number of known identities.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
