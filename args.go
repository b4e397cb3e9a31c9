package jobmanager

// Cloner is implemented by argument types whose plain Go copy would still
// share memory with the caller, such as types wrapping slices or maps.
// Job constructors call Clone once so the job owns its copy.
type Cloner[A any] interface {
	Clone() A
}

// Releaser is implemented by captured values that must be torn down once
// the job body has run. Release is called exactly once, after the body
// returned and before the job's fence is signalled.
type Releaser interface {
	Release()
}

// own returns the copy of a that a job keeps.
func own[A any](a A) A {
	if c, ok := any(a).(Cloner[A]); ok {
		return c.Clone()
	}
	return a
}

// release tears down a captured value.
func release[A any](a *A) {
	if r, ok := any(*a).(Releaser); ok {
		r.Release()
	}
	var zero A
	*a = zero
}
