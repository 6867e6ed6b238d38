package reloader

// State is the phase of the reload cycle the engine is in.
type State uint32

const (
	// StateIdle means no cycle is running.
	StateIdle State = iota
	// StateScanning means a changed module is being read and scanned.
	StateScanning
	// StateApplying means scan results are being applied to the registry.
	StateApplying
	// StateFailed means the scan failed; the engine returns to idle next.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateScanning:
		return "Scanning"
	case StateApplying:
		return "Applying"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
