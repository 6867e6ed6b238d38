package app_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotswap/internal/adapters/config"
	"go.trai.ch/hotswap/internal/adapters/fs"
	"go.trai.ch/hotswap/internal/adapters/jumptable"
	"go.trai.ch/hotswap/internal/adapters/modimage"
	"go.trai.ch/hotswap/internal/adapters/telemetry"
	"go.trai.ch/hotswap/internal/adapters/watcher"
	"go.trai.ch/hotswap/internal/app"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports/mocks"
	"go.trai.ch/hotswap/internal/engine/registry"
	"go.trai.ch/hotswap/internal/engine/reloader"
	"go.trai.ch/hotswap/internal/engine/scanner"
	"go.uber.org/mock/gomock"
)

var fooBar = domain.NewMethodKey("Foo", "Bar")

func moduleImage(addr string) []byte {
	return []byte("types:\n  - name: Foo\n    methods:\n      - name: Bar\n        flags: [noinline]\n        address: " + addr + "\n")
}

// rawSource feeds raw events to the notifier. send returns once the event
// has been observed.
type rawSource struct {
	events chan domain.ChangeEvent
	acks   chan struct{}
	errs   chan error
}

func newRawSource() *rawSource {
	return &rawSource{
		events: make(chan domain.ChangeEvent),
		acks:   make(chan struct{}),
		errs:   make(chan error),
	}
}

func (r *rawSource) eventSeq() iter.Seq[domain.ChangeEvent] {
	return func(yield func(domain.ChangeEvent) bool) {
		for ev := range r.events {
			ok := yield(ev)
			r.acks <- struct{}{}
			if !ok {
				return
			}
		}
	}
}

func (r *rawSource) errSeq() iter.Seq[error] {
	return func(yield func(error) bool) {
		for err := range r.errs {
			if !yield(err) {
				return
			}
		}
	}
}

func (r *rawSource) send(ev domain.ChangeEvent) {
	r.events <- ev
	<-r.acks
}

func (r *rawSource) stop() error {
	close(r.events)
	close(r.errs)
	return nil
}

type stack struct {
	app      *app.App
	notifier *watcher.Notifier
	registry *registry.Registry
	table    *jumptable.Table
	raw      *rawSource
}

// newStack wires the real reload pipeline around a scripted change source.
func newStack(t *testing.T) *stack {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	raw := newRawSource()
	source := mocks.NewMockChangeSource(ctrl)
	source.EXPECT().Start(gomock.Any(), gomock.Any(), domain.DefaultPattern, false).Return(nil)
	source.EXPECT().Events().Return(raw.eventSeq())
	source.EXPECT().Errors().Return(raw.errSeq())
	source.EXPECT().Stop().DoAndReturn(raw.stop)

	modules := fs.NewModuleSource()
	in := modimage.NewIntrospector()
	s := scanner.NewScanner(in, in, in)
	table := jumptable.New()
	reg := registry.NewRegistry(modules, s, table, log)
	engine := reloader.NewEngine(modules, s, reg, telemetry.NewNoOpTracer(), log)
	notifier := watcher.NewNotifier(source, log, clockwork.NewRealClock())

	return &stack{
		app:      app.New(config.NewLoader(log), notifier, reg, engine, log, nil),
		notifier: notifier,
		registry: reg,
		table:    table,
		raw:      raw,
	}
}

func TestApp_SingleWriteBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "a.image.yaml")
		require.NoError(t, os.WriteFile(path, moduleImage("100"), 0o600))

		st := newStack(t)
		require.NoError(t, st.app.Start(t.Context(), dir))
		assert.Equal(t, []domain.RegistryEntry{{Key: fooBar, Address: 100}}, st.registry.Entries())

		var settled int
		st.notifier.OnSettled(func(domain.ChangeEvent) { settled++ })

		// The burst starts shortly before the first sweep.
		time.Sleep(2700 * time.Millisecond)
		require.NoError(t, os.WriteFile(path, moduleImage("200"), 0o600))
		for i := range 5 {
			if i > 0 {
				time.Sleep(50 * time.Millisecond)
			}
			st.raw.send(domain.ChangeEvent{Path: path, Op: domain.OpWrite})
		}

		// First sweep at 3s: the window of the last event is still open.
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, 0, settled)
		assert.Equal(t, []domain.RegistryEntry{{Key: fooBar, Address: 100}}, st.registry.Entries())

		// Second sweep at 6s, about 3s after the last write.
		time.Sleep(3 * time.Second)
		synctest.Wait()
		assert.Equal(t, 1, settled)
		assert.Equal(t, []domain.RegistryEntry{{Key: fooBar, Address: 200}}, st.registry.Entries())
		assert.Equal(t, domain.Address(200), st.table.Resolve(100))

		require.NoError(t, st.app.Stop())
		require.NoError(t, st.app.Stop())
	})
}

func TestApp_Start_ConfigurationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	source := mocks.NewMockChangeSource(ctrl)
	notifier := watcher.NewNotifier(source, log, clockwork.NewFakeClock())

	a := app.New(config.NewLoader(log), notifier, nil, nil, log, nil)

	err := a.Start(t.Context(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, domain.ErrConfiguration)
	require.ErrorIs(t, err, domain.ErrWatchRootNotFound)

	require.NoError(t, a.Stop())
}

// fakeNotifier records how the App drives it.
type fakeNotifier struct {
	delay     time.Duration
	root      string
	pattern   string
	recursive bool
	starts    atomic.Int32
	stops     atomic.Int32
}

func (f *fakeNotifier) Configure(delay time.Duration, root, pattern string, recursive bool) error {
	f.delay, f.root, f.pattern, f.recursive = delay, root, pattern, recursive
	return nil
}

func (f *fakeNotifier) OnSettled(watcher.SettledHandler) func() { return func() {} }

func (f *fakeNotifier) Start(context.Context) error {
	f.starts.Add(1)
	return nil
}

func (f *fakeNotifier) Stop() error {
	f.stops.Add(1)
	return nil
}

type fakeRegistry struct {
	entries []domain.RegistryEntry
	err     error
	roots   []string
}

func (f *fakeRegistry) Initialize(_ context.Context, root, _ string) (map[string]uint64, error) {
	f.roots = append(f.roots, root)
	return map[string]uint64{filepath.Join(root, "a.bin"): 7}, f.err
}

func (f *fakeRegistry) Entries() []domain.RegistryEntry { return f.entries }

type fakeReloader struct {
	seeded map[string]uint64
}

func (f *fakeReloader) Seed(path string, digest uint64) {
	if f.seeded == nil {
		f.seeded = map[string]uint64{}
	}
	f.seeded[path] = digest
}

func (f *fakeReloader) HandleSettled(context.Context, domain.ChangeEvent) {}

type traceSwitch struct{ enabled bool }

func (s *traceSwitch) SetEnabled(enabled bool) { s.enabled = enabled }

func TestApp_StartWith_Overrides(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	loader.EXPECT().Load("/mods").Return(&domain.Config{
		Root:    "/from-file",
		Pattern: "*.image.yaml",
		Delay:   time.Second,
	}, nil)

	notifier := &fakeNotifier{}
	reg := &fakeRegistry{}
	rel := &fakeReloader{}
	trace := &traceSwitch{}
	a := app.New(loader, notifier, reg, rel, log, trace)

	root, pattern, delay, recursive, tracing := "/mods", "*.bin", 250*time.Millisecond, true, true
	require.NoError(t, a.StartWith(t.Context(), app.Overrides{
		Root:      &root,
		Pattern:   &pattern,
		Delay:     &delay,
		Recursive: &recursive,
		Trace:     &tracing,
	}))
	require.NoError(t, a.StartWith(t.Context(), app.Overrides{Root: &root}))

	assert.Equal(t, "/mods", notifier.root)
	assert.Equal(t, "*.bin", notifier.pattern)
	assert.Equal(t, 250*time.Millisecond, notifier.delay)
	assert.True(t, notifier.recursive)
	assert.Equal(t, int32(1), notifier.starts.Load())
	assert.True(t, trace.enabled)
	assert.Equal(t, map[string]uint64{"/mods/a.bin": 7}, rel.seeded)

	require.NoError(t, a.Stop())
	assert.Equal(t, int32(1), notifier.stops.Load())
}

func TestApp_Start_ListingFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil)

	notifier := &fakeNotifier{}
	reg := &fakeRegistry{err: domain.ErrConfiguration}
	a := app.New(loader, notifier, reg, &fakeReloader{}, mocks.NewMockLogger(ctrl), nil)

	err := a.Start(t.Context(), "/mods")
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, int32(0), notifier.starts.Load())
}

func TestApp_Watch(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(domain.DefaultConfig(), nil)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	notifier := &fakeNotifier{}
	a := app.New(loader, notifier, &fakeRegistry{}, &fakeReloader{}, log, nil)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, app.Overrides{}) }()

	require.Eventually(t, func() bool { return notifier.starts.Load() == 1 }, 5*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancellation")
	}
	assert.Equal(t, int32(1), notifier.stops.Load())
}

func TestApp_Scan(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("/mods").Return(domain.DefaultConfig(), nil)

	reg := &fakeRegistry{entries: []domain.RegistryEntry{
		{Key: fooBar, Address: 0x64},
		{Key: domain.NewMethodKey("Game.Player", "Jump"), Address: 0xc8},
	}}
	a := app.New(loader, &fakeNotifier{}, reg, &fakeReloader{}, mocks.NewMockLogger(ctrl), nil)

	root := "/mods"
	var out bytes.Buffer
	require.NoError(t, a.Scan(t.Context(), app.Overrides{Root: &root}, &out))

	assert.Contains(t, out.String(), "METHOD")
	assert.Contains(t, out.String(), "Foo::Bar")
	assert.Contains(t, out.String(), "0x0000000000000064")
	assert.Contains(t, out.String(), "Game.Player::Jump")
	assert.Contains(t, out.String(), "reloadable methods: 2")
	assert.Equal(t, []string{"/mods"}, reg.roots)
}

func TestApp_Scan_ConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(nil, domain.ErrConfigParseFailed)

	a := app.New(loader, &fakeNotifier{}, &fakeRegistry{}, &fakeReloader{}, mocks.NewMockLogger(ctrl), nil)

	err := a.Scan(t.Context(), app.Overrides{}, &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
	assert.False(t, errors.Is(err, domain.ErrConfiguration))
}
