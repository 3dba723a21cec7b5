//go:build js && wasm

// Package dom renders into the browser document through syscall/js.
package dom

import (
	"fmt"
	"syscall/js"

	"github.com/AnatoleLucet/fiber"
)

// Node is the handle of a DOM node, with the listeners bound to it.
type Node struct {
	Value js.Value

	listeners map[string]js.Func
	children  []*Node
}

// Backend implements fiber.Backend on a document.
type Backend struct {
	doc js.Value
}

func New() *Backend {
	return &Backend{doc: js.Global().Get("document")}
}

// Container wraps the element with the given id as a render container.
func (b *Backend) Container(id string) (*Node, error) {
	el := b.doc.Call("getElementById", id)
	if el.IsNull() {
		return nil, fmt.Errorf("no element with id %q", id)
	}
	return &Node{Value: el}, nil
}

func (b *Backend) CreateHandle(tag string, props fiber.Props) fiber.Handle {
	n := &Node{listeners: make(map[string]js.Func)}
	if tag == fiber.TextTag {
		n.Value = b.doc.Call("createTextNode", "")
	} else {
		n.Value = b.doc.Call("createElement", tag)
	}

	apply(n, fiber.DiffProps(nil, props))
	return n
}

func (b *Backend) ApplyPropertyDelta(handle fiber.Handle, delta fiber.Delta) {
	apply(handle.(*Node), delta)
}

func (b *Backend) InsertHandle(parent, child fiber.Handle) {
	p, c := parent.(*Node), child.(*Node)
	p.Value.Call("appendChild", c.Value)
	p.children = append(p.children, c)
}

func (b *Backend) RemoveHandle(parent, child fiber.Handle) {
	p, c := parent.(*Node), child.(*Node)
	p.Value.Call("removeChild", c.Value)

	for i, n := range p.children {
		if n == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	c.release()
}

// ReleaseHandle frees the listeners of a node created by a discarded pass.
func (b *Backend) ReleaseHandle(handle fiber.Handle) {
	handle.(*Node).release()
}

func apply(n *Node, d fiber.Delta) {
	for _, p := range d.RemovedEvents {
		name := fiber.EventName(p.Name)
		if fn, ok := n.listeners[name]; ok {
			n.Value.Call("removeEventListener", name, fn)
			fn.Release()
			delete(n.listeners, name)
		}
	}

	for _, name := range d.ClearedProps {
		if name == "nodeValue" {
			n.Value.Set(name, "")
			continue
		}
		n.Value.Call("removeAttribute", name)
	}

	for _, p := range d.SetProps {
		if p.Name == "nodeValue" {
			n.Value.Set(p.Name, fmt.Sprint(p.Value))
			continue
		}
		n.Value.Call("setAttribute", p.Name, fmt.Sprint(p.Value))
	}

	for _, p := range d.AddedEvents {
		name := fiber.EventName(p.Name)
		fn := listener(p.Value)
		n.listeners[name] = fn
		n.Value.Call("addEventListener", name, fn)
	}
}

// listener adapts a handler to a JS callback. Handlers may be func() or
// func(js.Value), which receives the event.
func listener(handler any) js.Func {
	return js.FuncOf(func(_ js.Value, args []js.Value) any {
		switch h := handler.(type) {
		case func():
			h()
		case func(js.Value):
			var ev js.Value
			if len(args) > 0 {
				ev = args[0]
			}
			h(ev)
		}
		return nil
	})
}

// release frees the listeners of a detached subtree.
func (n *Node) release() {
	for name, fn := range n.listeners {
		fn.Release()
		delete(n.listeners, name)
	}
	for _, c := range n.children {
		c.release()
	}
}
