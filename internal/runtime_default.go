//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// runtimes currently invoking a render function, keyed by goroutine id
var active sync.Map

// CurrentRuntime returns the runtime rendering a component on this goroutine, if any.
func CurrentRuntime() *Runtime {
	if r, ok := active.Load(getGID()); ok {
		return r.(*Runtime)
	}
	return nil
}

func (r *Runtime) activate() (restore func()) {
	gid := getGID()

	prev, had := active.Load(gid)
	active.Store(gid, r)

	return func() {
		if had {
			active.Store(gid, prev)
		} else {
			active.Delete(gid)
		}
	}
}

func getGID() int64 {
	return goid.Get()
}
