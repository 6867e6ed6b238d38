package reloader

// OnTransition registers a hook called on every state change.
func (e *Engine) OnTransition(fn func(State)) {
	e.onTransition = fn
}
