package fiber

import (
	"time"

	"github.com/AnatoleLucet/fiber/internal"
	"github.com/sirupsen/logrus"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

type (
	Element   = internal.Element
	Props     = internal.Props
	Type      = internal.Type
	Component = internal.Component
	Handle    = internal.Handle
	Delta     = internal.Delta
	Property  = internal.Property
	Backend   = internal.Backend
	Host      = internal.Host
	Deadline  = internal.Deadline
	Stats     = internal.Stats
	State     = internal.State
)

// HandleReleaser is implemented by backends that hold resources for handles
// not yet inserted. The runtime calls it for handles of a discarded pass.
type HandleReleaser = internal.HandleReleaser

const (
	StateIdle       = internal.StateIdle
	StateBuilding   = internal.StateBuilding
	StateCommitting = internal.StateCommitting
)

// TextTag is the host tag of text leaves; their text is under the "nodeValue" property.
const TextTag = internal.TextTag

var (
	ErrHookOutsideRender = internal.ErrHookOutsideRender
	ErrNilRender         = internal.ErrNilRender
	ErrHookMismatch      = internal.ErrHookMismatch
	ErrTooManyRenders    = internal.ErrTooManyRenders
	ErrInvalidType       = internal.ErrInvalidType
	ErrNoContainer       = internal.ErrNoContainer
)

type (
	RenderError = internal.RenderError
	EffectError = internal.EffectError
)

// NewComponent declares a render function. The returned pointer is the
// component's identity: elements built from the same pointer reconcile in place.
func NewComponent(name string, render func(Props) *Element) *Component {
	return &Component{Name: name, Render: render}
}

// H builds an element. typ is a host tag string, a *Component or a Type.
// Strings, numbers and booleans among children become text leaves,
// nil children are skipped and slices of elements are flattened.
func H(typ any, props Props, children ...any) *Element {
	return internal.NewElement(typ, props, children...)
}

// Text builds a text leaf.
func Text(text string) *Element {
	return internal.NewText(text)
}

// DiffProps computes the property delta between two renders of a node.
// Backends use it with a nil prev to apply initial props.
func DiffProps(prev, next Props) Delta {
	return internal.DiffProps(prev, next)
}

// IsEvent reports whether a property name is an event binding, like "onClick".
func IsEvent(key string) bool { return internal.IsEvent(key) }

// EventName returns the event of an event property: "onClick" gives "click".
func EventName(key string) string { return internal.EventName(key) }

// Deps builds an effect dependency list. Deps() with no values runs the effect
// once, on mount; passing a nil slice to UseEffect runs it on every commit.
func Deps(values ...any) []any {
	if values == nil {
		return []any{}
	}
	return values
}

// Setter queues updates on a state slot. Each call schedules a new render.
type Setter[T any] struct {
	set func(internal.Action)
}

// Set replaces the state with v.
func (s Setter[T]) Set(v T) {
	s.set(internal.ReplaceAction(v))
}

// Update computes the next state from the previous one.
func (s Setter[T]) Update(fn func(T) T) {
	s.set(internal.UpdateAction(func(prev any) any {
		return fn(as[T](prev))
	}))
}

// UseState returns the current state of the calling component's next state
// slot and its setter. It must be called from a render function, always in the same order.
func UseState[T any](initial T) (T, Setter[T]) {
	value, set := mustRuntime().UseState(initial)
	return as[T](value), Setter[T]{set}
}

// UseEffect registers fn to run after the render is committed. fn may return
// a cleanup run before the next execution or on unmount. With deps == nil fn runs
// after every commit; otherwise only when a dependency changed.
func UseEffect(fn func() func(), deps []any) {
	mustRuntime().UseEffect(fn, deps)
}

func mustRuntime() *internal.Runtime {
	r := internal.CurrentRuntime()
	if r == nil {
		panic(ErrHookOutsideRender)
	}
	return r
}

// Option configures a Runtime.
type Option = internal.Option

func WithLogger(logger logrus.FieldLogger) Option { return internal.WithLogger(logger) }

// WithYieldThreshold sets the time remaining under which work yields to the host (default 1ms).
func WithYieldThreshold(d time.Duration) Option { return internal.WithYieldThreshold(d) }

// WithStrictHooks panics with ErrHookMismatch when a component's hook calls change between renders.
func WithStrictHooks() Option { return internal.WithStrictHooks() }

// Runtime reconciles element trees into one render target.
type Runtime struct {
	runtime *internal.Runtime
}

// NewRuntime creates a runtime drawing into backend and scheduling its work on host.
func NewRuntime(backend Backend, host Host, opts ...Option) *Runtime {
	return &Runtime{internal.NewRuntime(backend, host, opts...)}
}

// Render schedules element to be mounted under container, replacing what was rendered before.
func (r *Runtime) Render(element *Element, container Handle) { r.runtime.Render(element, container) }

// Flush performs all pending work now, ignoring the host's time budget.
func (r *Runtime) Flush() { r.runtime.Flush() }

// State reports whether the runtime is idle, building a tree or committing.
func (r *Runtime) State() State { return r.runtime.State() }

// Stats returns counters of the last commit.
func (r *Runtime) Stats() Stats { return r.runtime.Stats() }

// OnError registers a handler for panics raised by render functions and effects.
// Without handlers such panics propagate to the host.
func (r *Runtime) OnError(fn func(any)) { r.runtime.OnError(fn) }
