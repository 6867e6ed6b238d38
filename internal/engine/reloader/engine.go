// Package reloader drives reload cycles from settled module changes.
package reloader

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

// MethodScanner extracts the reload-eligible methods of a module.
type MethodScanner interface {
	Scan(data []byte) ([]domain.Method, error)
}

// MethodApplier reconciles scan results with the method registry.
type MethodApplier interface {
	Apply(ctx context.Context, methods []domain.Method) (domain.ApplyReport, error)
}

// Engine runs one reload cycle per settled change: read, scan, apply.
// Cycles are serialized.
type Engine struct {
	source   ports.ModuleSource
	scanner  MethodScanner
	registry MethodApplier
	tracer   ports.Tracer
	logger   ports.Logger

	mu      sync.Mutex
	digests map[string]uint64

	state        atomic.Uint32
	onTransition func(State)
}

// NewEngine creates a new Engine with the given dependencies.
func NewEngine(
	source ports.ModuleSource,
	scanner MethodScanner,
	registry MethodApplier,
	tracer ports.Tracer,
	logger ports.Logger,
) *Engine {
	return &Engine{
		source:   source,
		scanner:  scanner,
		registry: registry,
		tracer:   tracer,
		logger:   logger,
		digests:  make(map[string]uint64),
	}
}

// State returns the current phase.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	e.state.Store(uint32(s))
	if e.onTransition != nil {
		e.onTransition(s)
	}
}

// Seed records the digest of a module the registry already knows, so an
// unchanged rewrite of it is skipped.
func (e *Engine) Seed(path string, digest uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.digests[path] = digest
}

// HandleSettled runs a reload cycle for a settled change. Errors are logged,
// never returned: a failing module must not stop the watcher.
func (e *Engine) HandleSettled(ctx context.Context, event domain.ChangeEvent) {
	switch event.Op {
	case domain.OpRemove, domain.OpRename:
		e.logger.Info(fmt.Sprintf("module %s: %s, keeping its methods", event.Op, event.Path))
		return
	case domain.OpCreate, domain.OpWrite:
	}

	if _, err := e.Reload(ctx, event.Path); err != nil {
		e.logger.Error(err)
	}
}

// Reload reads, scans and applies the module at path. A scan failure leaves
// the registry untouched. The module's digest is recorded only after a fully
// successful cycle, so a failed attempt never blocks a later one.
func (e *Engine) Reload(ctx context.Context, path string) (domain.ApplyReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := e.tracer.Start(ctx, "reload", ports.WithAttribute("path", path))
	defer span.End()

	var report domain.ApplyReport
	e.setState(StateScanning)

	methods, digest, skip, err := e.scan(ctx, path)
	if err != nil {
		e.setState(StateFailed)
		e.setState(StateIdle)
		err = zerr.With(zerr.Wrap(err, "reload failed"), "path", path)
		span.RecordError(err)
		return report, err
	}
	if skip {
		e.setState(StateIdle)
		span.SetAttribute("unchanged", true)
		e.logger.Info(fmt.Sprintf("module unchanged: %s", path))
		return report, nil
	}

	e.setState(StateApplying)
	report, err = e.apply(ctx, methods)
	e.setState(StateIdle)

	span.SetAttribute("patched", len(report.Patched))
	span.SetAttribute("inserted", len(report.Inserted))
	span.SetAttribute("failed", len(report.Failed))

	e.logger.Info(fmt.Sprintf("reloaded %s: %d patched, %d new, %d unchanged, %d failed",
		filepath.Base(path), len(report.Patched), len(report.Inserted), len(report.Unchanged), len(report.Failed)))

	if err != nil {
		err = zerr.With(zerr.Wrap(err, "reload incomplete"), "path", path)
		span.RecordError(err)
		return report, err
	}

	e.digests[path] = digest
	return report, nil
}

func (e *Engine) scan(ctx context.Context, path string) ([]domain.Method, uint64, bool, error) {
	_, span := e.tracer.Start(ctx, "scan")
	defer span.End()

	img, err := e.source.Read(path)
	if err != nil {
		span.RecordError(err)
		return nil, 0, false, err
	}

	if prev, ok := e.digests[path]; ok && prev == img.Digest {
		return nil, img.Digest, true, nil
	}

	methods, err := e.scanner.Scan(img.Data)
	if err != nil {
		span.RecordError(err)
		return nil, 0, false, err
	}
	span.SetAttribute("methods", len(methods))

	return methods, img.Digest, false, nil
}

func (e *Engine) apply(ctx context.Context, methods []domain.Method) (domain.ApplyReport, error) {
	ctx, span := e.tracer.Start(ctx, "apply")
	defer span.End()

	report, err := e.registry.Apply(ctx, methods)
	if err != nil {
		span.RecordError(err)
	}
	return report, err
}
