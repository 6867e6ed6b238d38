// Package scanner enumerates the reload-eligible methods of a module.
package scanner

import (
	"cmp"
	"errors"
	"slices"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scanner turns module bytes into the identities and addresses of the
// methods carrying the reload-eligibility marker.
type Scanner struct {
	loader    ports.ModuleLoader
	inspector ports.MarkerInspector
	resolver  ports.AddressResolver
}

// NewScanner creates a new Scanner with the given dependencies.
func NewScanner(
	loader ports.ModuleLoader,
	inspector ports.MarkerInspector,
	resolver ports.AddressResolver,
) *Scanner {
	return &Scanner{
		loader:    loader,
		inspector: inspector,
		resolver:  resolver,
	}
}

// Scan loads data and returns its reload-eligible methods sorted by key.
// Every type and every method is considered regardless of visibility or
// staticness. A single unresolvable address fails the whole module.
func (s *Scanner) Scan(data []byte) ([]domain.Method, error) {
	types, err := s.loader.Load(data)
	if err != nil {
		if !errors.Is(err, domain.ErrModuleLoad) {
			err = errors.Join(domain.ErrModuleLoad, err)
		}
		return nil, err
	}

	seen := make(map[domain.MethodKey]struct{})
	var methods []domain.Method

	for _, typ := range types {
		for _, desc := range typ.Methods {
			if !s.inspector.IsReloadable(desc) {
				continue
			}

			key := desc.Key()
			if _, dup := seen[key]; dup {
				return nil, zerr.With(zerr.Wrap(domain.ErrDuplicateMethod, ""), "key", key.String())
			}
			seen[key] = struct{}{}

			addr, err := s.resolver.ResolveAddress(desc)
			if err != nil {
				return nil, errors.Join(domain.ErrAddressResolution, zerr.With(zerr.Wrap(err, ""), "key", key.String()))
			}

			methods = append(methods, domain.Method{Key: key, Address: addr})
		}
	}

	slices.SortFunc(methods, func(a, b domain.Method) int {
		return cmp.Compare(a.Key.String(), b.Key.String())
	})

	return methods, nil
}
