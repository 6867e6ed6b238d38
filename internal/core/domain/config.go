package domain

import "time"

const (
	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = "hotswap.yaml"

	// DefaultPattern matches module images published by the host runtime.
	DefaultPattern = "*.image.yaml"

	// DefaultDelay is the default coalescing window.
	DefaultDelay = 3 * time.Second
)

// Config holds the settings of the reload subsystem.
type Config struct {
	// Root is the folder holding the modules.
	Root string
	// Pattern selects module files by base name.
	Pattern string
	// Recursive extends watching to subdirectories of Root.
	Recursive bool
	// Delay is the coalescing window.
	Delay time.Duration
	// JSONLogs switches the logger to JSON output.
	JSONLogs bool
	// Trace reports finished reload spans to the logger.
	Trace bool
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Root:    ".",
		Pattern: DefaultPattern,
		Delay:   DefaultDelay,
	}
}
