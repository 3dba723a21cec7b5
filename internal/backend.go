package internal

import "time"

// Handle is an opaque reference to a native object owned by a Backend.
type Handle any

// Backend materializes and mutates the render target.
type Backend interface {
	CreateHandle(tag string, props Props) Handle
	ApplyPropertyDelta(handle Handle, delta Delta)
	InsertHandle(parent, child Handle)
	RemoveHandle(parent, child Handle)
}

// HandleReleaser is implemented by backends holding resources for a handle
// before it is inserted. ReleaseHandle is called for handles created by a pass
// that was discarded; they are never inserted nor removed.
type HandleReleaser interface {
	ReleaseHandle(handle Handle)
}

// Deadline reports how much of the current host slice is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// Host is the cooperative scheduler primitive the runtime relies on.
// ScheduleWork must call fn later, never synchronously.
type Host interface {
	ScheduleWork(fn func(Deadline))
}

type unbounded struct{}

func (unbounded) TimeRemaining() time.Duration { return time.Duration(1<<63 - 1) }
