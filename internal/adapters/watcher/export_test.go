package watcher

// SweepNow runs one eviction sweep synchronously.
func (n *Notifier) SweepNow() {
	n.sweep()
}
