package internal

import (
	"fmt"
	"strconv"
)

// TextTag is the reserved host tag of leaf text descriptors.
const TextTag = "#text"

// ChildrenKey is the reserved property holding an element's children.
const ChildrenKey = "children"

// NodeValueKey holds the text of a TextTag element.
const NodeValueKey = "nodeValue"

type Kind uint8

const (
	KindHost Kind = iota
	KindComponent
	kindRoot
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindComponent:
		return "component"
	case kindRoot:
		return "root"
	default:
		return "unknown"
	}
}

// Component is a render function with a stable identity.
type Component struct {
	Name   string
	Render func(Props) *Element
}

// Type is either a host tag or a component reference.
type Type struct {
	kind      Kind
	tag       string
	component *Component
}

func HostType(tag string) Type { return Type{kind: KindHost, tag: tag} }

func ComponentType(c *Component) Type { return Type{kind: KindComponent, component: c} }

func (t Type) Kind() Kind { return t.kind }
func (t Type) Tag() string { return t.tag }
func (t Type) Component() *Component { return t.component }
func (t Type) IsComponent() bool { return t.kind == KindComponent }

// Equal reports whether two types denote the same node kind.
// Components compare by identity, host tags by name.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}

	switch t.kind {
	case KindComponent:
		return t.component == o.component
	default:
		return t.tag == o.tag
	}
}

func (t Type) String() string {
	switch t.kind {
	case KindComponent:
		if t.component == nil || t.component.Name == "" {
			return "<component>"
		}
		return t.component.Name
	case kindRoot:
		return "<root>"
	default:
		return t.tag
	}
}

// Element is the immutable descriptor of one node.
type Element struct {
	Type  Type
	Props Props
}

// Children returns the element's declared children.
func (e *Element) Children() []*Element {
	if e == nil {
		return nil
	}
	return e.Props.Children()
}

// Props maps property names to values. The "children" entry is reserved.
type Props map[string]any

func (p Props) Children() []*Element {
	children, _ := p[ChildrenKey].([]*Element)
	return children
}

// NewElement builds a descriptor. typ may be a Type, a *Component or a host tag string.
// Children may be elements, slices of elements or primitives, which become text leaves.
func NewElement(typ any, props Props, children ...any) *Element {
	var t Type
	switch v := typ.(type) {
	case Type:
		t = v
	case *Component:
		t = ComponentType(v)
	case string:
		t = HostType(v)
	default:
		panic(fmt.Errorf("%w: %T", ErrInvalidType, typ))
	}

	merged := make(Props, len(props)+1)
	for k, v := range props {
		if k == ChildrenKey {
			continue
		}
		merged[k] = v
	}
	merged[ChildrenKey] = normalizeChildren(children)

	return &Element{Type: t, Props: merged}
}

// NewText builds a leaf text descriptor.
func NewText(text string) *Element {
	return &Element{
		Type: HostType(TextTag),
		Props: Props{
			NodeValueKey: text,
			ChildrenKey:  []*Element{},
		},
	}
}

func normalizeChildren(children []any) []*Element {
	out := make([]*Element, 0, len(children))
	for _, child := range children {
		out = appendChild(out, child)
	}
	return out
}

func appendChild(out []*Element, child any) []*Element {
	switch c := child.(type) {
	case nil:
		return out
	case *Element:
		if c == nil {
			return out
		}
		return append(out, c)
	case []*Element:
		for _, e := range c {
			out = appendChild(out, e)
		}
		return out
	case string:
		return append(out, NewText(c))
	case bool:
		return append(out, NewText(strconv.FormatBool(c)))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return append(out, NewText(fmt.Sprint(c)))
	case fmt.Stringer:
		return append(out, NewText(c.String()))
	default:
		panic(fmt.Errorf("%w: unsupported child %T", ErrInvalidType, child))
	}
}
