package render

// Host performs node operations for a rendering target. N is the host's node
// handle; its zero value means "no node" wherever an anchor is accepted.
type Host[N comparable] interface {
	// CreateElement creates a detached element.
	CreateElement(tag string) N
	// CreateText creates a detached text node.
	CreateText(text string) N
	// CreateComment creates a detached comment node.
	CreateComment(text string) N

	// SetText replaces the content of a text node.
	SetText(node N, text string)
	// SetElementText replaces every child of el with the given text.
	SetElementText(el N, text string)
	// PatchProp updates one property of el. next is nil when the property
	// is removed.
	PatchProp(el N, key string, prev, next any)

	// Insert moves node into parent before anchor, or at the end when
	// anchor is the zero N.
	Insert(node, parent, anchor N)
	// Remove detaches node from its parent.
	Remove(node N)
	// NextSibling returns the node after node, or the zero N.
	NextSibling(node N) N
}
