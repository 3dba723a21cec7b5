package internal

import "github.com/sirupsen/logrus"

// commitRoot applies the finished work tree to the render target in one
// uninterrupted pass, runs effects and promotes the tree to current.
func (r *Runtime) commitRoot() {
	r.state = StateCommitting
	r.busy = true

	stats := Stats{Units: r.units}
	var panics []any
	guard := func(component string, fn func()) func() {
		return func() {
			defer func() {
				if p := recover(); p != nil {
					panics = append(panics, &EffectError{Component: component, Cause: p})
				}
			}()
			fn()
		}
	}

	for _, id := range r.deletions {
		r.commitDeletion(id, guard)
		stats.Deletions++
	}

	r.arena.Walk(r.wipRoot, func(id UnitID, u *Unit) bool {
		if id == r.wipRoot {
			return true
		}

		switch u.intent {
		case IntentPlacement:
			stats.Placements++
			if u.handle != nil {
				r.backend.InsertHandle(r.parentHandle(u), u.handle)
			}
		case IntentUpdate:
			stats.Updates++
			if u.handle != nil {
				if alt := r.arena.Get(u.alternate); alt != nil {
					if delta := DiffProps(alt.props, u.props); !delta.Empty() {
						r.backend.ApplyPropertyDelta(u.handle, delta)
					}
				}
			}
		case IntentDeletion:
			r.commitDeletion(id, guard)
		}

		if u.typ.IsComponent() {
			r.commitHooks(u, guard)
		}

		return true
	})

	r.nodes.Commit()

	stats.Cleanups = r.effects.RunEffects(PhaseCleanup)
	stats.Effects = r.effects.RunEffects(PhaseRun)

	prev := r.current
	r.current = r.wipRoot
	r.wipRoot = NoUnit
	r.next = NoUnit
	r.deletions = nil

	// the previous tree is no longer reachable from any pass
	r.arena.ReleaseTree(prev)
	r.arena.Walk(r.current, func(_ UnitID, u *Unit) bool {
		u.alternate = NoUnit
		return true
	})

	r.stats = stats
	r.state = StateIdle
	r.busy = false

	r.logger.WithFields(logrus.Fields{
		"units":      stats.Units,
		"placements": stats.Placements,
		"updates":    stats.Updates,
		"deletions":  stats.Deletions,
		"effects":    stats.Effects,
		"cleanups":   stats.Cleanups,
	}).Debug("commit")

	r.flushDeferred()

	for _, p := range panics {
		r.report(p)
	}
}

// commitHooks queues the state of u for commit and decides which effects run.
func (r *Runtime) commitHooks(u *Unit, guard func(string, func()) func()) {
	for _, hook := range u.stateHooks {
		r.nodes.Enqueue(hook)
	}

	name := u.typ.String()

	var prevEffects []*EffectHook
	if alt := r.arena.Get(u.alternate); alt != nil {
		prevEffects = alt.effectHooks
	}

	for i, hook := range u.effectHooks {
		hook := hook // per-iteration copy: captured by the deferred effect closure below
		var prev *EffectHook
		if i < len(prevEffects) {
			prev = prevEffects[i]
		}

		if prev != nil && !depsChanged(prev.deps, hook.deps) {
			hook.cleanup = prev.cleanup
			continue
		}

		if prev != nil && prev.cleanup != nil {
			r.effects.Enqueue(PhaseCleanup, guard(name, prev.cleanup))
		}

		r.effects.Enqueue(PhaseRun, guard(name, func() {
			hook.cleanup = hook.callback()
		}))
	}

	// slots the new render no longer calls
	for i := len(u.effectHooks); i < len(prevEffects); i++ {
		if cleanup := prevEffects[i].cleanup; cleanup != nil {
			r.effects.Enqueue(PhaseCleanup, guard(name, cleanup))
		}
	}
}

// commitDeletion removes the handles of a deleted subtree from the target and
// queues the cleanups of every effect inside it. It is idempotent.
func (r *Runtime) commitDeletion(id UnitID, guard func(string, func()) func()) {
	u := r.arena.Get(id)
	if u == nil || u.detached {
		return
	}
	u.detached = true

	r.arena.Walk(id, func(_ UnitID, d *Unit) bool {
		for _, hook := range d.effectHooks {
			if hook.cleanup != nil {
				r.effects.Enqueue(PhaseCleanup, guard(d.typ.String(), hook.cleanup))
				hook.cleanup = nil
			}
		}
		return true
	})

	target := u
	for target != nil && target.handle == nil {
		target = r.arena.Get(target.child)
	}
	if target == nil {
		return
	}

	r.backend.RemoveHandle(r.parentHandle(u), target.handle)
}

// parentHandle returns the handle of the nearest ancestor that has one.
func (r *Runtime) parentHandle(u *Unit) Handle {
	for p := r.arena.Get(u.parent); p != nil; p = r.arena.Get(p.parent) {
		if p.handle != nil {
			return p.handle
		}
	}
	return nil
}
