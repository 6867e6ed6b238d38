package app

import (
	"context"

	"go.trai.ch/hotswap/internal/core/ports"
)

// Shutdowner releases resources held until the process exits.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	// Telemetry owns the tracer provider and is shut down on exit.
	Telemetry Shutdowner
}
