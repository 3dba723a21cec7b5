package internal

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats counts what the last commit did.
type Stats struct {
	Units      int
	Placements int
	Updates    int
	Deletions  int
	Effects    int
	Cleanups   int
}

// Runtime reconciles one render target. It is not safe for concurrent use:
// every call, including hook setters, must happen on the host's thread.
type Runtime struct {
	arena   *Arena
	tracker *Tracker
	effects *EffectQueue
	nodes   *NodeQueue

	backend Backend
	host    Host
	logger  logrus.FieldLogger

	yieldThreshold time.Duration
	strictHooks    bool

	// panic handlers
	catchers []func(any)

	state     State
	next      UnitID
	wipRoot   UnitID
	current   UnitID
	deletions []UnitID

	// true while a unit is performed or a commit runs
	busy bool
	// update requested while busy, started once the runtime is free again
	deferred string
	// Render called while busy; it replaces any deferred update
	deferredRender *deferredRender
	// the rendering component queued an update on its own state
	rerender bool

	units int
	stats Stats
}

type deferredRender struct {
	container Handle
	props     Props
}

type Option func(*Runtime)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Runtime) { r.logger = logger }
}

// WithYieldThreshold sets the remaining time under which the work loop yields.
func WithYieldThreshold(d time.Duration) Option {
	return func(r *Runtime) { r.yieldThreshold = d }
}

// WithStrictHooks makes hook order, count or dependency arity changes between
// renders of the same component panic with ErrHookMismatch.
func WithStrictHooks() Option {
	return func(r *Runtime) { r.strictHooks = true }
}

func NewRuntime(backend Backend, host Host, opts ...Option) *Runtime {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Runtime{
		arena:   NewArena(),
		tracker: NewTracker(),
		effects: NewEffectQueue(),
		nodes:   NewNodeQueue(),

		backend: backend,
		host:    host,
		logger:  discard,

		yieldThreshold: time.Millisecond,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.host.ScheduleWork(r.workLoop)

	return r
}

// Render starts a fresh top-level update mounting element under container.
func (r *Runtime) Render(element *Element, container Handle) {
	if container == nil {
		panic(ErrNoContainer)
	}

	props := Props{ChildrenKey: []*Element{element}}
	if r.busy {
		r.deferredRender = &deferredRender{container: container, props: props}
		return
	}

	r.discardWork()
	r.beginUpdate(container, props, "render")
}

// Flush runs pending work to completion, ignoring the host's time budget.
// Called from a render function or an effect it does nothing: the work
// already in progress is finished by the caller.
func (r *Runtime) Flush() {
	if r.busy {
		return
	}

	for r.wipRoot != NoUnit {
		r.runUnits(unbounded{})
	}
}

func (r *Runtime) OnError(fn func(any)) {
	r.catchers = append(r.catchers, fn)
}

func (r *Runtime) State() State { return r.state }
func (r *Runtime) Stats() Stats { return r.stats }
func (r *Runtime) Arena() *Arena { return r.arena }
func (r *Runtime) CurrentRoot() UnitID { return r.current }
func (r *Runtime) WorkRoot() UnitID { return r.wipRoot }
func (r *Runtime) NextUnit() UnitID { return r.next }

// scheduleUpdate starts a new logical update rooted at a copy of the committed
// root. Requests made while a unit or commit is running are deferred until it ends.
func (r *Runtime) scheduleUpdate(reason string) {
	if r.busy {
		r.deferred = reason
		return
	}

	r.restart(reason)
}

func (r *Runtime) restart(reason string) {
	base := r.arena.Get(r.current)
	if base == nil {
		// nothing committed yet, replay the pending mount
		base = r.arena.Get(r.wipRoot)
	}
	if base == nil {
		return
	}

	container, props := base.handle, base.props
	r.discardWork()
	r.beginUpdate(container, props, reason)
}

func (r *Runtime) beginUpdate(container Handle, props Props, reason string) {
	root := r.arena.Alloc(Type{kind: kindRoot}, props)
	u := r.arena.Get(root)
	u.handle = container
	u.alternate = r.current

	r.wipRoot = root
	r.next = root
	r.state = StateBuilding
	r.units = 0

	r.logger.WithField("reason", reason).Debug("update scheduled")
}

// discardWork drops the in-flight work tree, if any. It has no visible effect
// on the render target since nothing is applied before commit.
func (r *Runtime) discardWork() {
	if r.wipRoot == NoUnit {
		return
	}

	if rel, ok := r.backend.(HandleReleaser); ok {
		r.arena.Walk(r.wipRoot, func(_ UnitID, u *Unit) bool {
			if u.intent == IntentPlacement && u.handle != nil {
				rel.ReleaseHandle(u.handle)
			}
			return true
		})
	}

	live := r.arena.Live()
	r.arena.ReleaseTree(r.wipRoot)

	for _, id := range r.deletions {
		if u := r.arena.Get(id); u != nil {
			u.intent = IntentNone
		}
	}

	r.logger.WithField("units", live-r.arena.Live()).Debug("in-flight tree discarded")

	r.deletions = nil
	r.nodes.Clear()
	r.wipRoot = NoUnit
	r.next = NoUnit
	r.state = StateIdle
}

func (r *Runtime) flushDeferred() {
	if r.busy {
		return
	}

	if d := r.deferredRender; d != nil {
		r.deferredRender = nil
		r.deferred = ""
		r.discardWork()
		r.beginUpdate(d.container, d.props, "render")
		return
	}

	if r.deferred == "" {
		return
	}

	reason := r.deferred
	r.deferred = ""
	r.restart(reason)
}

// report hands a recovered panic to the error handlers, or re-raises it.
func (r *Runtime) report(p any) {
	if len(r.catchers) == 0 {
		panic(p)
	}

	for _, catcher := range r.catchers {
		catcher(p)
	}
}
