package ports

// Logger receives the diagnostics of the reload subsystem: discovered and
// patched methods, skipped modules and watcher failures. None of them are
// returned to the host.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info reports progress such as a patched method.
	Info(msg string)
	// Warn reports a recoverable oddity such as a duplicate method key.
	Warn(msg string)
	// Error reports a failure together with its cause chain.
	Error(err error)
}
