package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hotswap/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/hotswap/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/hotswap/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/hotswap/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/hotswap/internal/engine/registry"
	"go.trai.ch/hotswap/internal/engine/reloader"
	"go.trai.ch/zerr"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			watcher.NotifierNodeID,
			registry.NodeID,
			reloader.NodeID,
			logger.NodeID,
			telemetry.BridgeNodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			shutdowner, ok := tracer.(Shutdowner)
			if !ok {
				return nil, zerr.New("tracer cannot be shut down")
			}

			return &Components{App: a, Logger: log, Telemetry: shutdowner}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	notifier, err := graft.Dep[*watcher.Notifier](ctx)
	if err != nil {
		return nil, err
	}

	reg, err := graft.Dep[*registry.Registry](ctx)
	if err != nil {
		return nil, err
	}

	engine, err := graft.Dep[*reloader.Engine](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	bridge, err := graft.Dep[*telemetry.LogBridge](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, notifier, reg, engine, log, bridge), nil
}
