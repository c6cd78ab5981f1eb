package vdom

import (
	"fmt"
	"reflect"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComment                // Comment node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// ShapeFlags is a bit set describing a node and the shape of its children.
type ShapeFlags uint16

const (
	ShapeElement       ShapeFlags = 1 << 0
	ShapeComponent     ShapeFlags = 1 << 2
	ShapeTextChildren  ShapeFlags = 1 << 3
	ShapeArrayChildren ShapeFlags = 1 << 4
	ShapeSlotsChildren ShapeFlags = 1 << 5
)

// Has reports whether every bit of flag is set.
func (s ShapeFlags) Has(flag ShapeFlags) bool {
	return s&flag == flag
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind      VKind      // Node type
	Tag       string     // Element tag name (e.g., "div")
	Props     Props      // Attributes, minus the key
	Children  Children   // Child content
	Key       string     // Reconciliation key, from the "key" prop
	Text      string     // For KindText and KindComment
	Comp      Component  // For KindComponent
	ShapeFlag ShapeFlags // Node and children shape

	// Host state owned by the renderer once the node is mounted.
	El       any // host node; the start anchor for fragments
	Anchor   any // end anchor for fragments
	Instance any // component instance
}

// Props holds attributes and event handlers.
type Props map[string]any

// Component is anything that can render to a VNode.
type Component interface {
	Render(props Props, children Children) *VNode
}

// FuncComponent wraps a render function.
type FuncComponent func(props Props, children Children) *VNode

// Render implements Component.
func (f FuncComponent) Render(props Props, children Children) *VNode {
	return f(props, children)
}

// Func creates a component from a render function.
func Func(render func(props Props, children Children) *VNode) Component {
	return FuncComponent(render)
}

// CreateVNode builds a node from a type, props and children. typ is a tag
// name for elements, a Component, or one of KindText, KindComment and
// KindFragment. For text and comment nodes the children's text becomes the
// node text. A "key" prop becomes the node key and is removed from Props.
func CreateVNode(typ any, props Props, children Children) *VNode {
	v := &VNode{}
	switch t := typ.(type) {
	case string:
		v.Kind, v.Tag, v.ShapeFlag = KindElement, t, ShapeElement
	case Component:
		v.Kind, v.Comp, v.ShapeFlag = KindComponent, t, ShapeComponent
	case VKind:
		v.Kind = t
	default:
		panic(fmt.Sprintf("vdom: invalid vnode type %T", typ))
	}

	if k, ok := props["key"]; ok {
		if k != nil {
			v.Key = fmt.Sprint(k)
		}
		props = withoutKey(props)
	}
	v.Props = props

	switch v.Kind {
	case KindText, KindComment:
		v.Text = children.Text()
	default:
		NormalizeChildren(v, children)
	}
	return v
}

func withoutKey(p Props) Props {
	if len(p) == 1 {
		return nil
	}
	out := make(Props, len(p)-1)
	for k, val := range p {
		if k != "key" {
			out[k] = val
		}
	}
	return out
}

// IsVNode reports whether v is a non-nil *VNode.
func IsVNode(v any) bool {
	n, ok := v.(*VNode)
	return ok && n != nil
}

// IsSameVNodeType reports whether b can be patched onto a in place: same
// kind, same key, and same tag or component type.
func IsSameVNodeType(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Key != b.Key {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindComponent:
		return reflect.TypeOf(a.Comp) == reflect.TypeOf(b.Comp)
	}
	return true
}
