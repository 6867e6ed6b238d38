package jumptable

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the jump table Graft node.
const NodeID graft.ID = "adapter.jumptable"

func init() {
	graft.Register(graft.Node[*Table]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Table, error) {
			return New(), nil
		},
	})
}
