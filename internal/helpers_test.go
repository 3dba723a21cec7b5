package internal

import (
	"fmt"
	"time"
)

type fakeHandle struct {
	tag      string
	props    map[string]any
	children []*fakeHandle
}

// fakeBackend records the calls it receives.
type fakeBackend struct {
	calls    []string
	deltas   []Delta
	created  int
	released []string
}

func (b *fakeBackend) CreateHandle(tag string, props Props) Handle {
	b.created++
	h := &fakeHandle{tag: tag, props: map[string]any{}}
	for _, p := range DiffProps(nil, props).SetProps {
		h.props[p.Name] = p.Value
	}
	b.calls = append(b.calls, "create "+tag)
	return h
}

func (b *fakeBackend) ApplyPropertyDelta(handle Handle, delta Delta) {
	h := handle.(*fakeHandle)
	for _, name := range delta.ClearedProps {
		delete(h.props, name)
	}
	for _, p := range delta.SetProps {
		h.props[p.Name] = p.Value
	}
	b.deltas = append(b.deltas, delta)
	b.calls = append(b.calls, "update "+h.tag)
}

func (b *fakeBackend) InsertHandle(parent, child Handle) {
	p, c := parent.(*fakeHandle), child.(*fakeHandle)
	p.children = append(p.children, c)
	b.calls = append(b.calls, fmt.Sprintf("insert %s into %s", c.tag, p.tag))
}

func (b *fakeBackend) RemoveHandle(parent, child Handle) {
	p, c := parent.(*fakeHandle), child.(*fakeHandle)
	for i, n := range p.children {
		if n == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	b.calls = append(b.calls, fmt.Sprintf("remove %s from %s", c.tag, p.tag))
}

func (b *fakeBackend) ReleaseHandle(handle Handle) {
	b.released = append(b.released, handle.(*fakeHandle).tag)
}

// stepHost keeps the last scheduled callback.
type stepHost struct {
	pending func(Deadline)
}

func (h *stepHost) ScheduleWork(fn func(Deadline)) { h.pending = fn }

func (h *stepHost) tick(d Deadline) {
	fn := h.pending
	h.pending = nil
	fn(d)
}

// countdown allows n units before asking to yield.
type countdown int

func (c *countdown) TimeRemaining() time.Duration {
	*c--
	if *c <= 0 {
		return 0
	}
	return time.Hour
}

func newTestRuntime(opts ...Option) (*Runtime, *fakeBackend, *stepHost, *fakeHandle) {
	b := &fakeBackend{}
	h := &stepHost{}
	return NewRuntime(b, h, opts...), b, h, &fakeHandle{tag: "container", props: map[string]any{}}
}

// intents lists "type:intent" of every unit under the work root, in traversal order.
func intents(r *Runtime, root UnitID) []string {
	var out []string
	r.arena.Walk(root, func(id UnitID, u *Unit) bool {
		if id != root {
			out = append(out, u.typ.String()+":"+u.intent.String())
		}
		return true
	})
	return out
}

func deletedTypes(r *Runtime) []string {
	var out []string
	for _, id := range r.deletions {
		out = append(out, r.arena.Get(id).typ.String())
	}
	return out
}

// buildOnly runs every unit of the pending pass without committing it.
func buildOnly(r *Runtime) {
	for r.next != NoUnit {
		r.step()
	}
}
