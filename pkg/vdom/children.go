package vdom

import "fmt"

// ChildrenKind discriminates the content held by Children.
type ChildrenKind uint8

const (
	ChildrenNone  ChildrenKind = iota // No children
	ChildrenArray                     // A list of nodes
	ChildrenText                      // A text string
	ChildrenSlots                     // Named slot functions
	ChildrenFunc                      // A single default slot function
)

// String returns the string representation of the ChildrenKind.
func (k ChildrenKind) String() string {
	switch k {
	case ChildrenNone:
		return "None"
	case ChildrenArray:
		return "Array"
	case ChildrenText:
		return "Text"
	case ChildrenSlots:
		return "Slots"
	case ChildrenFunc:
		return "Func"
	default:
		return "Unknown"
	}
}

// Slot renders the nodes of one slot.
type Slot func() []*VNode

// Slots maps slot names to slots.
type Slots map[string]Slot

// DefaultSlot is the name of the slot held by ChildrenFunc.
const DefaultSlot = "default"

// Children is the content of a node. The zero value holds nothing.
type Children struct {
	kind  ChildrenKind
	nodes []*VNode
	text  string
	slots Slots
	fn    Slot
}

// NoChildren returns empty Children.
func NoChildren() Children {
	return Children{}
}

// ArrayChildren holds a list of nodes. Nil nodes are dropped.
func ArrayChildren(nodes ...*VNode) Children {
	out := make([]*VNode, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return Children{kind: ChildrenArray, nodes: out}
}

// TextChildren holds a text string.
func TextChildren(text string) Children {
	return Children{kind: ChildrenText, text: text}
}

// SlotChildren holds named slots.
func SlotChildren(slots Slots) Children {
	return Children{kind: ChildrenSlots, slots: slots}
}

// FuncChildren holds a single default slot.
func FuncChildren(fn Slot) Children {
	return Children{kind: ChildrenFunc, fn: fn}
}

// Kind returns the kind of content held.
func (c Children) Kind() ChildrenKind {
	return c.kind
}

// Nodes returns the node list of array children, or nil.
func (c Children) Nodes() []*VNode {
	return c.nodes
}

// Text returns the string of text children, or "".
func (c Children) Text() string {
	return c.text
}

// Slot renders the named slot. Func children answer to DefaultSlot. Missing
// slots render nothing.
func (c Children) Slot(name string) []*VNode {
	switch c.kind {
	case ChildrenSlots:
		if s := c.slots[name]; s != nil {
			return s()
		}
	case ChildrenFunc:
		if name == DefaultSlot && c.fn != nil {
			return c.fn()
		}
	}
	return nil
}

// ChildrenOf converts a loosely typed value into Children:
//
//   - nil: no children
//   - Children: unchanged
//   - *VNode, []*VNode, Component: array children
//   - Slots, map[string]Slot: named slots
//   - Slot, func() []*VNode: default slot
//   - anything else: text, formatted with fmt.Sprint
func ChildrenOf(v any) Children {
	switch c := v.(type) {
	case nil:
		return NoChildren()
	case Children:
		return c
	case *VNode:
		return ArrayChildren(c)
	case []*VNode:
		return ArrayChildren(c...)
	case Slots:
		return SlotChildren(c)
	case map[string]Slot:
		return SlotChildren(c)
	case Slot:
		return FuncChildren(c)
	case func() []*VNode:
		return FuncChildren(c)
	case Component:
		return ArrayChildren(CreateVNode(c, nil, NoChildren()))
	case string:
		return TextChildren(c)
	default:
		return TextChildren(fmt.Sprint(c))
	}
}

// NormalizeChildren stores children on v and sets the matching shape flag.
// Slot children on an element are rendered into array children, since only
// components receive slots. Fragments always hold array children.
func NormalizeChildren(v *VNode, children Children) {
	var flag ShapeFlags
	switch children.kind {
	case ChildrenArray:
		flag = ShapeArrayChildren
	case ChildrenText:
		if v.Kind == KindFragment {
			children = ArrayChildren(Text(children.text))
			flag = ShapeArrayChildren
		} else {
			flag = ShapeTextChildren
		}
	case ChildrenSlots, ChildrenFunc:
		if v.ShapeFlag.Has(ShapeComponent) {
			flag = ShapeSlotsChildren
		} else {
			children = ArrayChildren(children.Slot(DefaultSlot)...)
			flag = ShapeArrayChildren
		}
	}
	v.Children = children
	v.ShapeFlag |= flag
}
