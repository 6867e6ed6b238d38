package wiring_test

import (
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotswap/internal/app"
	_ "go.trai.ch/hotswap/internal/wiring"
)

// TestGraftDependencies checks the declared dependencies of every node.
func TestGraftDependencies(t *testing.T) {
	// graft.AssertDepsValid infers the dependency ID from the package name of
	// the type passed to Dep[T]. Every adapter implements an interface from
	// the shared ports package, so it expects a node named "ports".
	t.Skip("Skipping Graft validation due to static analysis limitation with shared ports package")
	graft.AssertDepsValid(t, "../../internal")
}

// TestGraftResolvesComponents builds the full graph the binary uses.
func TestGraftResolvesComponents(t *testing.T) {
	c, _, err := graft.ExecuteFor[*app.Components](t.Context())
	require.NoError(t, err)
	require.NotNil(t, c.App)
	require.NotNil(t, c.Logger)
	require.NotNil(t, c.Telemetry)
	require.NoError(t, c.Telemetry.Shutdown(t.Context()))
}
