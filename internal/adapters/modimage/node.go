package modimage

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the module image introspector Graft node.
const NodeID graft.ID = "adapter.modimage"

func init() {
	graft.Register(graft.Node[*Introspector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Introspector, error) {
			return NewIntrospector(), nil
		},
	})
}
