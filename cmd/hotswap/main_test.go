package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/hotswap/internal/adapters/watcher"
	"go.trai.ch/hotswap/internal/app"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type idleNotifier struct{}

func (idleNotifier) Configure(time.Duration, string, string, bool) error { return nil }
func (idleNotifier) OnSettled(watcher.SettledHandler) func() { return func() {} }
func (idleNotifier) Start(context.Context) error { return nil }
func (idleNotifier) Stop() error { return nil }

type emptyRegistry struct{}

func (emptyRegistry) Initialize(context.Context, string, string) (map[string]uint64, error) {
	return nil, nil
}

func (emptyRegistry) Entries() []domain.RegistryEntry { return nil }

type noReloader struct{}

func (noReloader) Seed(string, uint64) {}
func (noReloader) HandleSettled(context.Context, domain.ChangeEvent) {}

func provide(a *app.App, log *mocks.MockLogger) ComponentProvider {
	return func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: a, Logger: log}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	a := app.New(mocks.NewMockConfigLoader(ctrl), idleNotifier{}, emptyRegistry{}, noReloader{}, log, nil)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provide(a, log))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "hotswap version")
}

// TestRun_Cleanup verifies that run releases the components before returning.
func TestRun_Cleanup(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	a := app.New(mocks.NewMockConfigLoader(ctrl), idleNotifier{}, emptyRegistry{}, noReloader{}, log, nil)

	cleaned := false
	provider := func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: a, Logger: log}, func() { cleaned = true }, nil
	}

	exitCode := run(context.Background(), []string{"version"}, io.Discard, io.Discard, provider)

	assert.Equal(t, 0, exitCode)
	assert.True(t, cleaned)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, io.Discard, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that failures are logged and exit with 1.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("/mods").Return(nil, domain.ErrConfigParseFailed)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
	})

	a := app.New(loader, idleNotifier{}, emptyRegistry{}, noReloader{}, log, nil)

	exitCode := run(context.Background(), []string{"scan", "--root", "/mods"}, io.Discard, io.Discard, provide(a, log))
	assert.Equal(t, 1, exitCode)
}

// TestRun_Cancel verifies that watch returns once the context is canceled.
func TestRun_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	a := app.New(loader, idleNotifier{}, emptyRegistry{}, noReloader{}, log, nil)

	ctx, cancel := context.WithCancel(context.Background())
	exitCh := make(chan int)
	go func() {
		exitCh <- run(ctx, []string{"watch"}, io.Discard, io.Discard, provide(a, log))
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case code := <-exitCh:
		assert.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}
