package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hotswap/internal/core/ports"
)

// SourceNodeID is the unique identifier for the module source Graft node.
const SourceNodeID graft.ID = "adapter.fs.source"

func init() {
	graft.Register(graft.Node[ports.ModuleSource]{
		ID:        SourceNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModuleSource, error) {
			return NewModuleSource(), nil
		},
	})
}
