package internal

import "fmt"

type hookKind uint8

const (
	hookState hookKind = iota
	hookEffect
)

// StateHook is one useState slot of a single render.
type StateHook struct {
	signal *Signal

	// value produced by this render, committed to signal on commit
	state    any
	consumed int
}

func (h *StateHook) State() any      { return h.state }
func (h *StateHook) Signal() *Signal { return h.signal }

// EffectHook is one useEffect registration of a single render.
type EffectHook struct {
	callback func() func()

	// nil means run on every commit
	deps []any

	// teardown returned by the last executed callback
	cleanup func()
}

func (h *EffectHook) Deps() []any { return h.deps }

// UseState returns the state of the calling component's next state slot and a
// function queueing an action on it.
func (r *Runtime) UseState(initial any) (any, func(Action)) {
	u, alt := r.renderingUnit()

	i := len(u.stateHooks)
	var sig *Signal
	switch {
	case i < len(u.retained):
		sig = u.retained[i]
	case alt != nil && i < len(alt.stateHooks):
		sig = alt.stateHooks[i].signal
	default:
		sig = NewSignal(initial)
	}

	state, consumed := sig.pending()
	u.stateHooks = append(u.stateHooks, &StateHook{
		signal:   sig,
		state:    state,
		consumed: consumed,
	})
	r.recordHook(u, alt, hookState)

	set := func(a Action) {
		sig.Enqueue(a)
		if r.ownsSignal(r.tracker.CurrentUnit(), sig) {
			// the component is setting its own state while rendering
			r.rerender = true
			return
		}
		r.scheduleUpdate("setState")
	}

	return state, set
}

// UseEffect registers callback to run after commit. deps == nil runs it on
// every commit, an empty non-nil slice only on mount.
func (r *Runtime) UseEffect(callback func() func(), deps []any) {
	u, alt := r.renderingUnit()

	i := len(u.effectHooks)
	if r.strictHooks && alt != nil && i < len(alt.effectHooks) {
		prev := alt.effectHooks[i].deps
		if (prev == nil) != (deps == nil) || len(prev) != len(deps) {
			panic(fmt.Errorf("%w: effect %d dependency arity %d, was %d", ErrHookMismatch, i, len(deps), len(prev)))
		}
	}

	u.effectHooks = append(u.effectHooks, &EffectHook{
		callback: callback,
		deps:     deps,
	})
	r.recordHook(u, alt, hookEffect)
}

func (r *Runtime) ownsSignal(id UnitID, sig *Signal) bool {
	u := r.arena.Get(id)
	if u == nil {
		return false
	}

	for _, h := range u.stateHooks {
		if h.signal == sig {
			return true
		}
	}
	return false
}

func (r *Runtime) renderingUnit() (u, alt *Unit) {
	u = r.arena.Get(r.tracker.CurrentUnit())
	if u == nil || !u.typ.IsComponent() {
		panic(ErrHookOutsideRender)
	}

	return u, r.arena.Get(u.alternate)
}

func (r *Runtime) recordHook(u, alt *Unit, kind hookKind) {
	u.hookKinds = append(u.hookKinds, kind)
	if !r.strictHooks || alt == nil {
		return
	}

	i := len(u.hookKinds) - 1
	if i >= len(alt.hookKinds) || alt.hookKinds[i] != kind {
		panic(fmt.Errorf("%w: hook %d of %s", ErrHookMismatch, i, u.typ))
	}
}

// checkHookCount verifies, in strict mode, that a finished render called as
// many hooks as the previous one.
func (r *Runtime) checkHookCount(u *Unit) {
	alt := r.arena.Get(u.alternate)
	if !r.strictHooks || alt == nil {
		return
	}

	if len(u.hookKinds) != len(alt.hookKinds) {
		panic(fmt.Errorf("%w: %s called %d hooks, previously %d", ErrHookMismatch, u.typ, len(u.hookKinds), len(alt.hookKinds)))
	}
}
