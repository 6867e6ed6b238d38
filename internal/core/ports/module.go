package ports

import "go.trai.ch/hotswap/internal/core/domain"

//go:generate mockgen -source=module.go -destination=mocks/mock_module.go -package=mocks

// ModuleSource enumerates module files and reads their content.
type ModuleSource interface {
	// List returns the direct children of folder whose base name matches pattern, sorted.
	List(folder, pattern string) ([]string, error)
	// Read loads the module at path.
	Read(path string) (*domain.ModuleImage, error)
}

// ModuleLoader loads raw module bytes into an inspectable form.
type ModuleLoader interface {
	// Load parses the module and returns every type it declares.
	Load(data []byte) ([]domain.TypeDescriptor, error)
}

// MarkerInspector decides whether a method carries the reload-eligibility marker.
type MarkerInspector interface {
	IsReloadable(method domain.MethodDescriptor) bool
}

// AddressResolver resolves a method's current compiled entry address.
type AddressResolver interface {
	// ResolveAddress fails if the method has no stable address yet.
	ResolveAddress(method domain.MethodDescriptor) (domain.Address, error)
}

// Redirector installs a jump at an old entry address so that invocations
// through it transfer control to a new address.
type Redirector interface {
	Redirect(from, to domain.Address) error
}
