package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/hotswap/internal/adapters/logger"
	"go.trai.ch/hotswap/internal/core/ports"
)

const (
	// SourceNodeID is the unique identifier for the raw change source Graft node.
	SourceNodeID graft.ID = "adapter.watcher.source"
	// NotifierNodeID is the unique identifier for the settled change notifier Graft node.
	NotifierNodeID graft.ID = "adapter.watcher.notifier"
)

func init() {
	graft.Register(graft.Node[ports.ChangeSource]{
		ID:        SourceNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ChangeSource, error) {
			return NewFSWatcher(), nil
		},
	})

	graft.Register(graft.Node[*Notifier]{
		ID:        NotifierNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{SourceNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Notifier, error) {
			source, err := graft.Dep[ports.ChangeSource](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewNotifier(source, log, clockwork.NewRealClock()), nil
		},
	})
}
