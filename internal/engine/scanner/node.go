package scanner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hotswap/internal/adapters/modimage" //nolint:depguard // Wired in engine wiring
)

// NodeID is the unique identifier for the scanner Graft node.
const NodeID graft.ID = "engine.scanner"

func init() {
	graft.Register(graft.Node[*Scanner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{modimage.NodeID},
		Run: func(ctx context.Context) (*Scanner, error) {
			introspector, err := graft.Dep[*modimage.Introspector](ctx)
			if err != nil {
				return nil, err
			}
			return NewScanner(introspector, introspector, introspector), nil
		},
	})
}
