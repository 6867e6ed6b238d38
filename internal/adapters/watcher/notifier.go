// Package watcher turns raw file system changes into settled change notifications.
package watcher

import (
	"cmp"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
	"unique"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

// SettledHandler receives the last raw event of a path once the path has
// been quiet for a full coalescing window.
type SettledHandler func(event domain.ChangeEvent)

type subscription struct {
	id uint64
	fn SettledHandler
}

type settings struct {
	delay     time.Duration
	root      string
	pattern   string
	recursive bool
}

// Notifier coalesces raw change events per path and emits one settled event
// per path per inactivity window.
//
// Raw events and the eviction sweep run on separate goroutines. The pending
// table and the handler list are guarded by mu, which is never held while a
// handler runs.
type Notifier struct {
	source ports.ChangeSource
	logger ports.Logger
	clock  clockwork.Clock

	mu       sync.Mutex
	delay    time.Duration
	pending  map[unique.Handle[string]]domain.PendingChange
	handlers []subscription
	nextID   uint64

	lifecycle sync.Mutex
	settings  *settings
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewNotifier creates a notifier fed by source.
func NewNotifier(source ports.ChangeSource, logger ports.Logger, clock clockwork.Clock) *Notifier {
	return &Notifier{
		source:  source,
		logger:  logger,
		clock:   clock,
		pending: make(map[unique.Handle[string]]domain.PendingChange),
	}
}

// Configure validates and stores the coalescing window and the source filter.
// The notifier must be stopped; the settings apply from the next Start.
func (n *Notifier) Configure(delay time.Duration, root, pattern string, recursive bool) error {
	if delay <= 0 {
		return configError(domain.ErrInvalidDelay, "delay", delay)
	}

	info, err := os.Stat(root)
	if err != nil {
		return configError(domain.ErrWatchRootNotFound, "root", root)
	}
	if !info.IsDir() {
		return configError(domain.ErrWatchRootNotDirectory, "root", root)
	}

	if pattern == "" {
		return configError(domain.ErrInvalidPattern, "pattern", pattern)
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return configError(domain.ErrInvalidPattern, "pattern", pattern)
	}

	n.lifecycle.Lock()
	defer n.lifecycle.Unlock()

	if n.cancel != nil {
		return configError(domain.ErrNotifierRunning, "root", root)
	}
	n.settings = &settings{delay: delay, root: root, pattern: pattern, recursive: recursive}

	n.mu.Lock()
	n.delay = delay
	n.mu.Unlock()

	return nil
}

func configError(sentinel error, key string, value any) error {
	return errors.Join(domain.ErrConfiguration, zerr.With(zerr.Wrap(sentinel, ""), key, value))
}

// Start subscribes to the raw source and starts the eviction sweep.
// Starting a running notifier is a no-op.
func (n *Notifier) Start(ctx context.Context) error {
	n.lifecycle.Lock()
	defer n.lifecycle.Unlock()

	if n.settings == nil {
		return errors.Join(domain.ErrConfiguration, domain.ErrNotConfigured)
	}
	if n.cancel != nil {
		return nil
	}

	cfg := *n.settings
	runCtx, cancel := context.WithCancel(ctx)

	if err := n.source.Start(runCtx, cfg.root, cfg.pattern, cfg.recursive); err != nil {
		cancel()
		return errors.Join(domain.ErrWatcher, zerr.With(err, "root", cfg.root))
	}

	ticker := n.clock.NewTicker(cfg.delay)
	n.cancel = cancel

	n.wg.Go(func() {
		for event := range n.source.Events() {
			n.Observe(event)
		}
	})
	n.wg.Go(func() {
		for err := range n.source.Errors() {
			n.logger.Error(errors.Join(domain.ErrWatcher, err))
		}
	})
	n.wg.Go(func() {
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.Chan():
				n.sweep()
			}
		}
	})

	return nil
}

// Stop unsubscribes from the raw source and stops the sweep. Pending changes
// are kept but not fired. It is safe to call Stop multiple times. Stop must
// not be called from a settled handler.
func (n *Notifier) Stop() error {
	n.lifecycle.Lock()
	defer n.lifecycle.Unlock()

	if n.cancel == nil {
		return nil
	}

	n.cancel()
	err := n.source.Stop()
	n.wg.Wait()
	n.cancel = nil

	if err != nil {
		return errors.Join(domain.ErrWatcher, err)
	}
	return nil
}

// Close is an alias for Stop.
func (n *Notifier) Close() error {
	return n.Stop()
}

// OnSettled registers handler and returns a function that removes it.
// Handlers run in registration order on the sweep goroutine.
func (n *Notifier) OnSettled(handler SettledHandler) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.handlers = append(n.handlers, subscription{id: id, fn: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			n.handlers = slices.DeleteFunc(n.handlers, func(s subscription) bool {
				return s.id == id
			})
		})
	}
}

// Observe records a raw event. A later event for the same path replaces the
// payload and re-arms the window.
func (n *Notifier) Observe(event domain.ChangeEvent) {
	now := n.clock.Now()

	n.mu.Lock()
	defer n.mu.Unlock()

	n.pending[unique.Make(event.Path)] = domain.PendingChange{
		Path:      event.Path,
		Payload:   event,
		ExpiresAt: now.Add(n.delay),
	}
}

// Pending reports the number of paths waiting for their window to lapse.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

// sweep removes every expired change and fires the handlers for it.
func (n *Notifier) sweep() {
	now := n.clock.Now()

	n.mu.Lock()
	var settled []domain.PendingChange
	for key, change := range n.pending {
		if change.Expired(now) {
			settled = append(settled, change)
			delete(n.pending, key)
		}
	}
	handlers := slices.Clone(n.handlers)
	n.mu.Unlock()

	slices.SortFunc(settled, func(a, b domain.PendingChange) int {
		return cmp.Compare(a.Path, b.Path)
	})

	for _, change := range settled {
		for _, h := range handlers {
			h.fn(change.Payload)
		}
	}
}
