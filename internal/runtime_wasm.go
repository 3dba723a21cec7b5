//go:build wasm

package internal

// wasm runs on a single thread
var active *Runtime

func CurrentRuntime() *Runtime {
	return active
}

func (r *Runtime) activate() (restore func()) {
	prev := active
	active = r

	return func() { active = prev }
}
