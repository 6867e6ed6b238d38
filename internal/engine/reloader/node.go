package reloader

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hotswap/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hotswap/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hotswap/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/hotswap/internal/engine/registry"
	"go.trai.ch/hotswap/internal/engine/scanner"
)

// NodeID is the unique identifier for the reload engine Graft node.
const NodeID graft.ID = "engine.reloader"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.SourceNodeID,
			scanner.NodeID,
			registry.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			source, err := graft.Dep[ports.ModuleSource](ctx)
			if err != nil {
				return nil, err
			}

			s, err := graft.Dep[*scanner.Scanner](ctx)
			if err != nil {
				return nil, err
			}

			reg, err := graft.Dep[*registry.Registry](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewEngine(source, s, reg, tracer, log), nil
		},
	})
}
