package internal

import "fmt"

type State int

const (
	StateIdle State = iota
	StateBuilding
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// workLoop is the host callback. It always schedules itself again.
func (r *Runtime) workLoop(deadline Deadline) {
	defer r.host.ScheduleWork(r.workLoop)

	r.runUnits(deadline)
}

// runUnits performs units until the cursor empties or the deadline asks to
// yield, then commits once if the tree is complete.
func (r *Runtime) runUnits(deadline Deadline) {
	performed := 0
	for r.next != NoUnit {
		r.step()
		performed++

		if deadline.TimeRemaining() < r.yieldThreshold {
			break
		}
	}

	if r.next == NoUnit && r.wipRoot != NoUnit {
		r.commitRoot()
		return
	}

	if performed > 0 {
		r.logger.WithField("units", performed).Debug("yield")
	}
}

// step performs exactly one unit. A panic aborts the whole pass.
func (r *Runtime) step() {
	defer func() {
		if p := recover(); p != nil {
			r.busy = false
			r.deferred = ""
			r.discardWork()
			r.flushDeferred()
			r.report(p)
		}
	}()

	r.busy = true
	r.next = r.performUnitOfWork(r.next)
	r.units++
	r.busy = false

	r.flushDeferred()
}

func (r *Runtime) performUnitOfWork(id UnitID) UnitID {
	u := r.arena.Get(id)

	switch u.typ.kind {
	case KindComponent:
		r.updateComponent(id, u)
	case KindHost:
		r.updateHost(id, u)
	case kindRoot:
		r.reconcileChildren(id, u.props.Children())
	}

	if u.child != NoUnit {
		return u.child
	}
	return r.arena.nextOutside(id, r.wipRoot)
}

// render-phase updates allowed before a component is considered looping
const maxRenderPasses = 25

func (r *Runtime) updateComponent(id UnitID, u *Unit) {
	var element *Element
	u.retained = nil
	for pass := 1; ; pass++ {
		if pass > 1 {
			// keep the state slots of the previous pass, their queues hold the new actions
			u.retained = u.retained[:0]
			for _, h := range u.stateHooks {
				u.retained = append(u.retained, h.signal)
			}
		}
		u.stateHooks = nil
		u.effectHooks = nil
		u.hookKinds = nil
		r.rerender = false

		element = r.renderComponent(id, u)
		if !r.rerender {
			break
		}
		if pass == maxRenderPasses {
			panic(&RenderError{Component: u.typ.String(), Cause: ErrTooManyRenders})
		}
	}

	u.retained = nil

	r.reconcileChildren(id, []*Element{element})
}

func (r *Runtime) renderComponent(id UnitID, u *Unit) (element *Element) {
	r.tracker.RunWithUnit(id, func() {
		defer func() {
			if p := recover(); p != nil {
				panic(&RenderError{Component: u.typ.String(), Cause: p})
			}
		}()

		restore := r.activate()
		defer restore()

		element = u.typ.component.Render(u.props)
		if element == nil {
			panic(ErrNilRender)
		}
		r.checkHookCount(u)
	})

	return element
}

func (r *Runtime) updateHost(id UnitID, u *Unit) {
	if u.handle == nil {
		u.handle = r.backend.CreateHandle(u.typ.tag, u.props)
	}

	r.reconcileChildren(id, u.props.Children())
}

func (r *Runtime) String() string {
	return fmt.Sprintf("runtime(%s, next=%d)", r.state, r.next)
}
