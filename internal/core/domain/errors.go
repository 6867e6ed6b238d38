package domain

import "go.trai.ch/zerr"

var (
	// ErrConfiguration is returned when the reload subsystem cannot be set up.
	// It is the only error allowed to abort startup.
	ErrConfiguration = zerr.New("invalid reload configuration")

	// ErrWatchRootNotFound is returned when the watched root does not exist.
	ErrWatchRootNotFound = zerr.New("watch root does not exist")

	// ErrWatchRootNotDirectory is returned when the watched root is not a directory.
	ErrWatchRootNotDirectory = zerr.New("watch root is not a directory")

	// ErrInvalidPattern is returned when the module file pattern is malformed.
	ErrInvalidPattern = zerr.New("invalid module file pattern")

	// ErrInvalidDelay is returned when the coalescing window is not positive.
	ErrInvalidDelay = zerr.New("coalescing delay must be positive")

	// ErrNotConfigured is returned when a notifier is started before Configure.
	ErrNotConfigured = zerr.New("notifier is not configured")

	// ErrNotifierRunning is returned when a running notifier is reconfigured.
	ErrNotifierRunning = zerr.New("notifier must be stopped before it is reconfigured")

	// ErrModuleLoad is returned when a module's bytes cannot be loaded or parsed.
	ErrModuleLoad = zerr.New("failed to load module")

	// ErrModuleRead is returned when a module file cannot be read from disk.
	ErrModuleRead = zerr.New("failed to read module")

	// ErrAddressResolution is returned when a method's compiled address cannot be obtained.
	ErrAddressResolution = zerr.New("failed to resolve method address")

	// ErrMethodNotCompiled is returned by resolvers for methods without a stable entry address.
	ErrMethodNotCompiled = zerr.New("method has not been compiled")

	// ErrDuplicateMethod is returned when a module declares the same method identity twice.
	ErrDuplicateMethod = zerr.New("duplicate reloadable method")

	// ErrPatchApplication is returned when redirecting an old address to a new one fails.
	ErrPatchApplication = zerr.New("failed to patch method")

	// ErrRedirectCycle is returned when an address would be redirected to itself.
	ErrRedirectCycle = zerr.New("redirect would create a cycle")

	// ErrUnknownAddress is returned when a redirect source is not a known entry point.
	ErrUnknownAddress = zerr.New("unknown entry address")

	// ErrWatcher wraps errors reported by the raw change source.
	ErrWatcher = zerr.New("file watcher error")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
)
