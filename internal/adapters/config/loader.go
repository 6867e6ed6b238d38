// Package config provides the configuration loader for hotswap.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// shortDelay is the window below which a single editor save usually still
// produces several settled events.
const shortDelay = 100 * time.Millisecond

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load looks for hotswap.yaml in cwd and its parents. Without a file the
// defaults apply with cwd as the module root.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.Root = filepath.Clean(cwd)

	configPath, found := findConfiguration(cwd)
	if !found {
		return cfg, nil
	}

	var file Hotswapfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	cfg.Root = resolveRoot(configPath, file.Root)
	cfg.Recursive = file.Recursive
	cfg.JSONLogs = file.Log.JSON
	cfg.Trace = file.Trace

	if file.Pattern != "" {
		cfg.Pattern = file.Pattern
	}

	if file.Delay != "" {
		delay, err := time.ParseDuration(file.Delay)
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", configPath)
		}
		cfg.Delay = delay
	}

	if cfg.Delay > 0 && cfg.Delay < shortDelay {
		l.Logger.Warn(fmt.Sprintf("delay %s in %s is shorter than %s; one save may reload a module several times",
			cfg.Delay, domain.ConfigFileName, shortDelay))
	}

	return cfg, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from the working directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Join(domain.ErrConfigReadFailed, err)
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return errors.Join(domain.ErrConfigParseFailed, parseErr)
	}

	return nil
}
