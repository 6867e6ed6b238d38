// Package app implements the reload subsystem exposed to hosts and the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.trai.ch/hotswap/internal/adapters/watcher"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Notifier produces settled change events for a watched folder.
type Notifier interface {
	Configure(delay time.Duration, root, pattern string, recursive bool) error
	OnSettled(handler watcher.SettledHandler) (unsubscribe func())
	Start(ctx context.Context) error
	Stop() error
}

// Registry is the method identity table built from the existing modules.
type Registry interface {
	Initialize(ctx context.Context, root, pattern string) (map[string]uint64, error)
	Entries() []domain.RegistryEntry
}

// Reloader runs reload cycles for settled changes.
type Reloader interface {
	Seed(path string, digest uint64)
	HandleSettled(ctx context.Context, event domain.ChangeEvent)
}

// TraceSwitch turns span reporting on or off.
type TraceSwitch interface {
	SetEnabled(enabled bool)
}

// Overrides holds command line values that take precedence over the
// configuration file. Nil fields keep the file value.
type Overrides struct {
	Root      *string
	Pattern   *string
	Delay     *time.Duration
	Recursive *bool
	JSONLogs  *bool
	Trace     *bool
}

// App represents the reload subsystem.
type App struct {
	configLoader ports.ConfigLoader
	notifier     Notifier
	registry     Registry
	reloader     Reloader
	logger       ports.Logger
	tracing      TraceSwitch

	mu          sync.Mutex
	cancel      context.CancelFunc
	unsubscribe func()
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	notifier Notifier,
	registry Registry,
	reloader Reloader,
	log ports.Logger,
	tracing TraceSwitch,
) *App {
	return &App{
		configLoader: loader,
		notifier:     notifier,
		registry:     registry,
		reloader:     reloader,
		logger:       log,
		tracing:      tracing,
	}
}

// Start loads the configuration found from folder, builds the registry from
// the modules in folder and starts watching it. Only configuration errors are
// returned. Starting a running App is a no-op.
func (a *App) Start(ctx context.Context, folder string) error {
	return a.StartWith(ctx, Overrides{Root: &folder})
}

// StartWith is Start with command line overrides applied to the configuration.
func (a *App) StartWith(ctx context.Context, o Overrides) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}

	cfg, err := a.resolveConfig(o)
	if err != nil {
		return err
	}

	if err := a.notifier.Configure(cfg.Delay, cfg.Root, cfg.Pattern, cfg.Recursive); err != nil {
		return err
	}

	digests, err := a.registry.Initialize(ctx, cfg.Root, cfg.Pattern)
	if err != nil {
		return err
	}
	for path, digest := range digests {
		a.reloader.Seed(path, digest)
	}

	// Cycles outlive the caller's context; Stop ends them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	unsubscribe := a.notifier.OnSettled(func(event domain.ChangeEvent) {
		a.reloader.HandleSettled(runCtx, event)
	})

	if err := a.notifier.Start(runCtx); err != nil {
		unsubscribe()
		cancel()
		return err
	}

	a.cancel = cancel
	a.unsubscribe = unsubscribe
	a.logger.Info(fmt.Sprintf("watching %s for %s (delay %s)", cfg.Root, cfg.Pattern, cfg.Delay))

	return nil
}

// Stop stops watching. Pending changes are dropped. It is safe to call Stop
// on a stopped App.
func (a *App) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel == nil {
		return nil
	}

	a.unsubscribe()
	err := a.notifier.Stop()
	a.cancel()

	a.cancel = nil
	a.unsubscribe = nil

	return err
}

// Watch starts the subsystem and keeps it running until ctx is done.
func (a *App) Watch(ctx context.Context, o Overrides) error {
	if err := a.StartWith(ctx, o); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		return a.Stop()
	})

	return g.Wait()
}

// Scan builds the registry from the current modules and writes it to w as a
// table without watching for changes.
func (a *App) Scan(ctx context.Context, o Overrides, w io.Writer) error {
	cfg, err := a.resolveConfig(o)
	if err != nil {
		return err
	}

	if _, err := a.registry.Initialize(ctx, cfg.Root, cfg.Pattern); err != nil {
		return err
	}

	entries := a.registry.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Key.String(), e.Address.String()})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("METHOD", "ADDRESS").
		Rows(rows...)

	_, err = fmt.Fprintf(w, "%s\nreloadable methods: %d\n", t.Render(), len(entries))
	return err
}

func (a *App) resolveConfig(o Overrides) (*domain.Config, error) {
	cwd := "."
	if o.Root != nil {
		cwd = *o.Root
	}

	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if o.Root != nil {
		cfg.Root = *o.Root
	}
	if o.Pattern != nil {
		cfg.Pattern = *o.Pattern
	}
	if o.Delay != nil {
		cfg.Delay = *o.Delay
	}
	if o.Recursive != nil {
		cfg.Recursive = *o.Recursive
	}
	if o.JSONLogs != nil {
		cfg.JSONLogs = *o.JSONLogs
	}
	if o.Trace != nil {
		cfg.Trace = *o.Trace
	}

	if j, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		j.SetJSON(cfg.JSONLogs)
	}
	if a.tracing != nil {
		a.tracing.SetEnabled(cfg.Trace)
	}

	return cfg, nil
}
