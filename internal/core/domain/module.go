package domain

// ModuleImage is the raw content of a compiled module read from disk.
type ModuleImage struct {
	Path   string
	Data   []byte
	Digest uint64
}

// KeyFailure records a method whose redirect could not be applied.
type KeyFailure struct {
	Key MethodKey
	Err error
}

// ApplyReport summarizes what a registry update did for one module.
type ApplyReport struct {
	Inserted  []MethodKey
	Patched   []MethodKey
	Unchanged []MethodKey
	Failed    []KeyFailure
}

// Empty reports whether the report holds no outcome at all.
func (r *ApplyReport) Empty() bool {
	return len(r.Inserted) == 0 && len(r.Patched) == 0 && len(r.Unchanged) == 0 && len(r.Failed) == 0
}
