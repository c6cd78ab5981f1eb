package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment node.
func Comment(content string) *VNode {
	return &VNode{
		Kind: KindComment,
		Text: content,
	}
}

// Fragment groups children without a wrapper element. Strings become text
// nodes so a fragment always holds array children.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	NormalizeChildren(node, ArrayChildren(collect(children)...))
	return node
}

// Element creates an element node. Arguments are collected as for Fragment,
// except that a single string argument becomes text children.
func Element(tag string, props Props, children ...any) *VNode {
	var c Children
	switch {
	case len(children) == 0:
		c = NoChildren()
	case len(children) == 1:
		if s, ok := children[0].(string); ok {
			c = TextChildren(s)
		} else {
			c = ArrayChildren(collect(children)...)
		}
	default:
		c = ArrayChildren(collect(children)...)
	}
	return CreateVNode(tag, props, c)
}

// Comp creates a component node.
func Comp(c Component, props Props, children ...any) *VNode {
	var ch Children
	switch len(children) {
	case 0:
		ch = NoChildren()
	case 1:
		ch = ChildrenOf(children[0])
	default:
		ch = ArrayChildren(collect(children)...)
	}
	return CreateVNode(c, props, ch)
}

// collect flattens loosely typed children into nodes.
func collect(children []any) []*VNode {
	nodes := make([]*VNode, 0, len(children))
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				nodes = append(nodes, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					nodes = append(nodes, c)
				}
			}
		case string:
			nodes = append(nodes, Text(v))
		case Component:
			nodes = append(nodes, CreateVNode(v, nil, NoChildren()))
		default:
			nodes = append(nodes, Text(fmt.Sprint(v)))
		}
	}
	return nodes
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}
