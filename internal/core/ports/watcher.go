package ports

import (
	"context"
	"iter"

	"go.trai.ch/hotswap/internal/core/domain"
)

// ChangeSource is the raw file system change source.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type ChangeSource interface {
	// Start begins reporting changes of files under root whose base name
	// matches pattern. Subdirectories are watched when recursive is set.
	Start(ctx context.Context, root, pattern string, recursive bool) error
	// Stop stops the source and releases all resources.
	// After Stop returns, the Events and Errors iterators terminate.
	Stop() error
	// Events returns an iterator of raw change events.
	Events() iter.Seq[domain.ChangeEvent]
	// Errors returns an iterator of the source's internal errors.
	Errors() iter.Seq[error]
}
