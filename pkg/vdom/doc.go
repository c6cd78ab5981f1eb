// Package vdom provides the virtual node model consumed by the renderer.
//
// A VNode describes one node of a UI tree: an element, a text node, a
// comment, a fragment or a component. Its ShapeFlags summarize the node and
// its children so the renderer can dispatch without inspecting values.
//
// # Children
//
// Children is a tagged union over the kinds of content a node can hold:
// nothing, an array of nodes, a text string, named slots or a slot
// function. ChildrenOf converts loosely typed values at the API boundary;
// everything after that switches on the kind.
//
//	Element("ul", Props{"class": "list"},
//	    Element("li", nil, "one"),
//	    Element("li", nil, "two"),
//	)
//
// # Components
//
// A Component renders a subtree from its props and children. Func adapts a
// plain function. The renderer drives each mounted component through its own
// reactive effect.
package vdom
