package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hotswap/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hotswap/internal/adapters/jumptable" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hotswap/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/hotswap/internal/engine/scanner"
)

// NodeID is the unique identifier for the registry Graft node.
const NodeID graft.ID = "engine.registry"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.SourceNodeID,
			scanner.NodeID,
			jumptable.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Registry, error) {
			source, err := graft.Dep[ports.ModuleSource](ctx)
			if err != nil {
				return nil, err
			}

			s, err := graft.Dep[*scanner.Scanner](ctx)
			if err != nil {
				return nil, err
			}

			table, err := graft.Dep[*jumptable.Table](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewRegistry(source, s, table, log), nil
		},
	})
}
