// Package memory is an in-memory render target. It keeps a tree of nodes,
// logs every mutation it receives and counts handles, which makes it the
// backend of choice for tests and for tools printing what a render did.
package memory

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AnatoleLucet/fiber"
	"github.com/google/go-cmp/cmp"
)

// Node is a materialized element.
type Node struct {
	ID     int
	Tag    string
	Props  map[string]any
	Events map[string]any

	Parent   *Node
	Children []*Node
}

func (n *Node) String() string {
	return fmt.Sprintf("%s#%d", n.Tag, n.ID)
}

// Text returns the concatenated text of n and its descendants.
func (n *Node) Text() string {
	if n.Tag == fiber.TextTag {
		return fmt.Sprint(n.Props["nodeValue"])
	}

	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// Size counts n and all its descendants.
func (n *Node) Size() int {
	size := 1
	for _, c := range n.Children {
		size += c.Size()
	}
	return size
}

// Find returns the first node, depth first, matching pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	if pred(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindByProp returns the first node whose property key equals value.
func (n *Node) FindByProp(key string, value any) *Node {
	return n.Find(func(c *Node) bool {
		v, ok := c.Props[key]
		return ok && cmp.Equal(v, value, exportAll)
	})
}

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Backend implements fiber.Backend.
type Backend struct {
	root   *Node
	nextID int

	log []string

	created  int
	inserted int
	removed  int
	detached int
	deltas   int
	released int
}

func New() *Backend {
	b := &Backend{}
	b.root = b.newNode("root")
	return b
}

// Container returns the root node to render into.
func (b *Backend) Container() *Node {
	return b.root
}

func (b *Backend) newNode(tag string) *Node {
	n := &Node{
		ID:     b.nextID,
		Tag:    tag,
		Props:  make(map[string]any),
		Events: make(map[string]any),
	}
	b.nextID++
	return n
}

func (b *Backend) CreateHandle(tag string, props fiber.Props) fiber.Handle {
	n := b.newNode(tag)
	apply(n, fiber.DiffProps(nil, props))

	b.created++
	b.logf("create %s", n)
	return n
}

func (b *Backend) ApplyPropertyDelta(handle fiber.Handle, delta fiber.Delta) {
	n := handle.(*Node)
	apply(n, delta)

	b.deltas++
	b.logf("update %s%s", n, describe(delta))
}

func (b *Backend) InsertHandle(parent, child fiber.Handle) {
	p, c := parent.(*Node), child.(*Node)

	c.Parent = p
	p.Children = append(p.Children, c)

	b.inserted++
	b.logf("insert %s into %s", c, p)
}

func (b *Backend) RemoveHandle(parent, child fiber.Handle) {
	p, c := parent.(*Node), child.(*Node)

	for i, n := range p.Children {
		if n == c {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	c.Parent = nil

	size := c.Size()
	b.removed++
	b.detached += size
	b.logf("remove %s from %s (%d handles)", c, p, size)
}

// ReleaseHandle drops the handlers of a node created by a discarded pass.
func (b *Backend) ReleaseHandle(handle fiber.Handle) {
	n := handle.(*Node)
	clear(n.Events)

	b.released++
}

// Dispatch calls the handler bound to event on n. Handlers may be func() or func(any).
// It reports whether a handler was found.
func (b *Backend) Dispatch(n *Node, event string, arg any) bool {
	switch h := n.Events[event].(type) {
	case func():
		h()
	case func(any):
		h(arg)
	default:
		return false
	}
	return true
}

// Log returns the mutations received since the last ResetLog.
func (b *Backend) Log() []string {
	return append([]string(nil), b.log...)
}

func (b *Backend) ResetLog() {
	b.log = b.log[:0]
}

// Created counts handles created.
func (b *Backend) Created() int { return b.created }

// Inserted counts insertions.
func (b *Backend) Inserted() int { return b.inserted }

// Removed counts RemoveHandle calls.
func (b *Backend) Removed() int { return b.removed }

// Detached counts handles taken out of the tree, descendants of removed handles included.
func (b *Backend) Detached() int { return b.detached }

// Deltas counts non-creation property updates.
func (b *Backend) Deltas() int { return b.deltas }

// Released counts handles dropped without ever being inserted.
func (b *Backend) Released() int { return b.released }

func (b *Backend) logf(format string, args ...any) {
	b.log = append(b.log, fmt.Sprintf(format, args...))
}

func apply(n *Node, d fiber.Delta) {
	for _, p := range d.RemovedEvents {
		delete(n.Events, fiber.EventName(p.Name))
	}
	for _, name := range d.ClearedProps {
		delete(n.Props, name)
	}
	for _, p := range d.SetProps {
		n.Props[p.Name] = p.Value
	}
	for _, p := range d.AddedEvents {
		n.Events[fiber.EventName(p.Name)] = p.Value
	}
}

func describe(d fiber.Delta) string {
	var sb strings.Builder
	for _, p := range d.RemovedEvents {
		fmt.Fprintf(&sb, " unbind %s", fiber.EventName(p.Name))
	}
	for _, name := range d.ClearedProps {
		fmt.Fprintf(&sb, " clear %s", name)
	}
	for _, p := range d.SetProps {
		fmt.Fprintf(&sb, " set %s=%q", p.Name, fmt.Sprint(p.Value))
	}
	for _, p := range d.AddedEvents {
		fmt.Fprintf(&sb, " bind %s", fiber.EventName(p.Name))
	}
	return sb.String()
}

// Render prints the tree under n as markup.
func Render(n *Node) string {
	var sb strings.Builder
	render(&sb, n, 0)
	return sb.String()
}

func render(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)

	if n.Tag == fiber.TextTag {
		fmt.Fprintf(sb, "%s%s\n", indent, n.Text())
		return
	}

	fmt.Fprintf(sb, "%s<%s", indent, n.Tag)
	for _, key := range sortedKeys(n.Props) {
		fmt.Fprintf(sb, " %s=%q", key, fmt.Sprint(n.Props[key]))
	}
	for _, key := range sortedKeys(n.Events) {
		fmt.Fprintf(sb, " @%s", key)
	}

	if len(n.Children) == 0 {
		sb.WriteString("/>\n")
		return
	}

	sb.WriteString(">\n")
	for _, c := range n.Children {
		render(sb, c, depth+1)
	}
	fmt.Fprintf(sb, "%s</%s>\n", indent, n.Tag)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
