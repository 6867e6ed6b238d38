package domain

import "time"

// ChangeOp is the kind of raw file system change.
type ChangeOp uint8

const (
	// OpCreate indicates a file was created.
	OpCreate ChangeOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed away from its path.
	OpRename
)

// String returns the lower-case name of the operation.
func (o ChangeOp) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// ChangeEvent is a raw change reported by the change source.
type ChangeEvent struct {
	// Path is the absolute path of the changed file.
	Path string
	// Op is the kind of change.
	Op ChangeOp
}

// PendingChange is a change waiting for its coalescing window to elapse.
type PendingChange struct {
	Path      string
	Payload   ChangeEvent
	ExpiresAt time.Time
}

// Expired reports whether the window has fully elapsed at now.
func (p *PendingChange) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
