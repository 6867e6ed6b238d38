package registry_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports/mocks"
	"go.trai.ch/hotswap/internal/engine/registry"
	"go.uber.org/mock/gomock"
)

// scanTable is a scanner keyed by module content.
type scanTable map[string][]domain.Method

func (s scanTable) Scan(data []byte) ([]domain.Method, error) {
	methods, ok := s[string(data)]
	if !ok {
		return nil, domain.ErrModuleLoad
	}
	return methods, nil
}

var (
	fooBar = domain.NewMethodKey("Foo", "Bar")
	fooBaz = domain.NewMethodKey("Foo", "Baz")
	qux    = domain.NewMethodKey("Game.Qux", "Run")
)

type registryMocks struct {
	source     *mocks.MockModuleSource
	redirector *mocks.MockRedirector
	logger     *mocks.MockLogger
}

func newRegistry(t *testing.T, scans scanTable) (*registry.Registry, registryMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := registryMocks{
		source:     mocks.NewMockModuleSource(ctrl),
		redirector: mocks.NewMockRedirector(ctrl),
		logger:     mocks.NewMockLogger(ctrl),
	}
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	return registry.NewRegistry(m.source, scans, m.redirector, m.logger), m
}

func image(path, data string, digest uint64) *domain.ModuleImage {
	return &domain.ModuleImage{Path: path, Data: []byte(data), Digest: digest}
}

func TestRegistry_Initialize(t *testing.T) {
	scans := scanTable{
		"a": {{Key: fooBar, Address: 100}},
		"b": {{Key: fooBaz, Address: 110}, {Key: qux, Address: 120}},
	}
	r, m := newRegistry(t, scans)

	m.source.EXPECT().List("/mods", "*.bin").Return([]string{"/mods/a.bin", "/mods/b.bin", "/mods/c.bin", "/mods/d.bin"}, nil)
	m.source.EXPECT().Read("/mods/a.bin").Return(image("/mods/a.bin", "a", 1), nil)
	m.source.EXPECT().Read("/mods/b.bin").Return(image("/mods/b.bin", "b", 2), nil)
	m.source.EXPECT().Read("/mods/c.bin").Return(image("/mods/c.bin", "corrupt", 3), nil)
	m.source.EXPECT().Read("/mods/d.bin").Return(nil, domain.ErrModuleRead)

	var logged []error
	m.logger.EXPECT().Error(gomock.Any()).Do(func(err error) { logged = append(logged, err) }).Times(2)

	digests, err := r.Initialize(t.Context(), "/mods", "*.bin")
	require.NoError(t, err)

	assert.Equal(t, map[string]uint64{"/mods/a.bin": 1, "/mods/b.bin": 2}, digests)
	assert.Equal(t, []domain.RegistryEntry{
		{Key: fooBar, Address: 100},
		{Key: fooBaz, Address: 110},
		{Key: qux, Address: 120},
	}, r.Entries())

	require.Len(t, logged, 2)
	require.ErrorIs(t, logged[0], domain.ErrModuleLoad)
	require.ErrorIs(t, logged[1], domain.ErrModuleRead)
}

func TestRegistry_Initialize_CrossModuleCollision(t *testing.T) {
	scans := scanTable{
		"a": {{Key: fooBar, Address: 100}},
		"b": {{Key: fooBar, Address: 900}},
	}
	r, m := newRegistry(t, scans)

	m.source.EXPECT().List("/mods", "*.bin").Return([]string{"/mods/a.bin", "/mods/b.bin"}, nil)
	m.source.EXPECT().Read("/mods/a.bin").Return(image("/mods/a.bin", "a", 1), nil)
	m.source.EXPECT().Read("/mods/b.bin").Return(image("/mods/b.bin", "b", 2), nil)
	m.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Equal(t, "method Foo::Bar from b.bin replaces the one found in a.bin", msg)
	})

	_, err := r.Initialize(t.Context(), "/mods", "*.bin")
	require.NoError(t, err)

	addr, ok := r.Lookup(fooBar)
	require.True(t, ok)
	assert.Equal(t, domain.Address(900), addr)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Initialize_ListFailure(t *testing.T) {
	r, m := newRegistry(t, scanTable{})

	m.source.EXPECT().List("/missing", "*.bin").Return(nil, errors.New("no such file or directory"))

	_, err := r.Initialize(t.Context(), "/missing", "*.bin")
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, 0, r.Len())
}

func seeded(t *testing.T, methods ...domain.Method) (*registry.Registry, registryMocks) {
	t.Helper()
	r, m := newRegistry(t, scanTable{"seed": methods})
	m.source.EXPECT().List(gomock.Any(), gomock.Any()).Return([]string{"/mods/a.bin"}, nil)
	m.source.EXPECT().Read("/mods/a.bin").Return(image("/mods/a.bin", "seed", 1), nil)
	_, err := r.Initialize(t.Context(), "/mods", "*.bin")
	require.NoError(t, err)
	return r, m
}

func TestRegistry_Apply_InsertsNewMethod(t *testing.T) {
	r, m := seeded(t, domain.Method{Key: fooBar, Address: 100})
	m.redirector.EXPECT().Redirect(gomock.Any(), gomock.Any()).Times(0)

	report, err := r.Apply(t.Context(), []domain.Method{{Key: fooBaz, Address: 300}})
	require.NoError(t, err)

	assert.Equal(t, []domain.MethodKey{fooBaz}, report.Inserted)
	addr, ok := r.Lookup(fooBaz)
	require.True(t, ok)
	assert.Equal(t, domain.Address(300), addr)
}

func TestRegistry_Apply_Redirects(t *testing.T) {
	r, m := seeded(t, domain.Method{Key: fooBar, Address: 100})
	m.redirector.EXPECT().Redirect(domain.Address(100), domain.Address(200)).Return(nil).Times(1)

	report, err := r.Apply(t.Context(), []domain.Method{{Key: fooBar, Address: 200}})
	require.NoError(t, err)

	assert.Equal(t, []domain.MethodKey{fooBar}, report.Patched)
	assert.Equal(t, []domain.RegistryEntry{{Key: fooBar, Address: 200}}, r.Entries())
}

func TestRegistry_Apply_UnchangedAddress(t *testing.T) {
	r, m := seeded(t, domain.Method{Key: fooBar, Address: 100})
	m.redirector.EXPECT().Redirect(gomock.Any(), gomock.Any()).Times(0)

	report, err := r.Apply(t.Context(), []domain.Method{{Key: fooBar, Address: 100}})
	require.NoError(t, err)

	assert.Equal(t, []domain.MethodKey{fooBar}, report.Unchanged)
	assert.Empty(t, report.Patched)
}

func TestRegistry_Apply_FailSoftPerKey(t *testing.T) {
	r, m := seeded(t,
		domain.Method{Key: fooBar, Address: 100},
		domain.Method{Key: fooBaz, Address: 110},
	)
	m.redirector.EXPECT().Redirect(domain.Address(100), domain.Address(200)).Return(errors.New("page is not writable"))
	m.redirector.EXPECT().Redirect(domain.Address(110), domain.Address(210)).Return(nil)

	report, err := r.Apply(t.Context(), []domain.Method{
		{Key: fooBar, Address: 200},
		{Key: fooBaz, Address: 210},
		{Key: qux, Address: 220},
	})
	require.ErrorIs(t, err, domain.ErrPatchApplication)
	assert.ErrorContains(t, err, "page is not writable")

	require.Len(t, report.Failed, 1)
	assert.Equal(t, fooBar, report.Failed[0].Key)
	assert.Equal(t, []domain.MethodKey{fooBaz}, report.Patched)
	assert.Equal(t, []domain.MethodKey{qux}, report.Inserted)

	// The failed key keeps its old address so a later rescan retries it.
	addr, _ := r.Lookup(fooBar)
	assert.Equal(t, domain.Address(100), addr)

	m.redirector.EXPECT().Redirect(domain.Address(100), domain.Address(200)).Return(nil)
	_, err = r.Apply(t.Context(), []domain.Method{{Key: fooBar, Address: 200}})
	require.NoError(t, err)
	addr, _ = r.Lookup(fooBar)
	assert.Equal(t, domain.Address(200), addr)
}

func TestRegistry_Apply_Serialized(t *testing.T) {
	r, m := seeded(t, domain.Method{Key: fooBar, Address: 100})

	var mu sync.Mutex
	var redirects []string
	m.redirector.EXPECT().Redirect(gomock.Any(), gomock.Any()).DoAndReturn(func(from, to domain.Address) error {
		mu.Lock()
		defer mu.Unlock()
		redirects = append(redirects, from.String()+"->"+to.String())
		return nil
	}).AnyTimes()

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			_, err := r.Apply(t.Context(), []domain.Method{{Key: fooBar, Address: 200}})
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	require.Len(t, redirects, 1)
	assert.True(t, strings.HasSuffix(redirects[0], "->"+domain.Address(200).String()))
}

func TestRegistry_Apply_Cancelled(t *testing.T) {
	r, _ := newRegistry(t, scanTable{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	report, err := r.Apply(ctx, []domain.Method{{Key: fooBar, Address: 1}})
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, report.Empty())
	assert.Equal(t, 0, r.Len())
}
