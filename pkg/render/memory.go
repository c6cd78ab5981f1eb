package render

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// OpKind is the type of a recorded host operation.
type OpKind uint8

const (
	OpCreateElement  OpKind = 0x01 // Create an element
	OpCreateText     OpKind = 0x02 // Create a text node
	OpCreateComment  OpKind = 0x03 // Create a comment node
	OpInsert         OpKind = 0x04 // Insert a node
	OpRemove         OpKind = 0x05 // Remove a node
	OpSetText        OpKind = 0x06 // Update text node content
	OpSetElementText OpKind = 0x07 // Replace element children with text
	OpPatchProp      OpKind = 0x08 // Set or remove a property
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreateComment:
		return "CreateComment"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpSetText:
		return "SetText"
	case OpSetElementText:
		return "SetElementText"
	case OpPatchProp:
		return "PatchProp"
	default:
		return "Unknown"
	}
}

// Op represents a single host operation performed by the renderer.
type Op struct {
	Kind   OpKind // Operation type
	Node   int    // Target node ID
	Parent int    // Parent for Insert
	Anchor int    // Anchor for Insert; 0 appends
	Key    string // Property key for PatchProp
	Value  string // Tag, text, or formatted property value
}

// NodeKind distinguishes MemoryHost nodes.
type NodeKind uint8

const (
	NodeElement NodeKind = iota
	NodeText
	NodeComment
)

// Node is a MemoryHost node.
type Node struct {
	ID       int
	Kind     NodeKind
	Tag      string
	Text     string
	Props    map[string]any
	Parent   *Node
	Children []*Node
}

// MemoryHost is a Host that keeps nodes in memory and records every
// operation applied to them. It is safe for concurrent use.
type MemoryHost struct {
	mu     sync.Mutex
	nextID int
	ops    []Op
}

var _ Host[*Node] = (*MemoryHost)(nil)

// NewMemoryHost creates an empty MemoryHost.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{}
}

// Container returns a detached root element to render into. Its creation is
// not recorded.
func (h *MemoryHost) Container() *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.newNode(NodeElement, "root", "")
}

// Ops returns a copy of the recorded operations.
func (h *MemoryHost) Ops() []Op {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.ops)
}

// Count returns the number of recorded operations of the given kind.
func (h *MemoryHost) Count(kind OpKind) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, op := range h.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset clears the operation log.
func (h *MemoryHost) Reset() {
	h.mu.Lock()
	h.ops = nil
	h.mu.Unlock()
}

func (h *MemoryHost) newNode(kind NodeKind, tag, text string) *Node {
	h.nextID++
	return &Node{ID: h.nextID, Kind: kind, Tag: tag, Text: text}
}

func (h *MemoryHost) record(op Op) {
	h.ops = append(h.ops, op)
}

// CreateElement implements Host.
func (h *MemoryHost) CreateElement(tag string) *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.newNode(NodeElement, tag, "")
	h.record(Op{Kind: OpCreateElement, Node: n.ID, Value: tag})
	return n
}

// CreateText implements Host.
func (h *MemoryHost) CreateText(text string) *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.newNode(NodeText, "", text)
	h.record(Op{Kind: OpCreateText, Node: n.ID, Value: text})
	return n
}

// CreateComment implements Host.
func (h *MemoryHost) CreateComment(text string) *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.newNode(NodeComment, "", text)
	h.record(Op{Kind: OpCreateComment, Node: n.ID, Value: text})
	return n
}

// SetText implements Host.
func (h *MemoryHost) SetText(n *Node, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n.Text = text
	h.record(Op{Kind: OpSetText, Node: n.ID, Value: text})
}

// SetElementText implements Host.
func (h *MemoryHost) SetElementText(el *Node, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range el.Children {
		c.Parent = nil
	}
	el.Children = nil
	if text != "" {
		t := h.newNode(NodeText, "", text)
		t.Parent = el
		el.Children = []*Node{t}
	}
	h.record(Op{Kind: OpSetElementText, Node: el.ID, Value: text})
}

// PatchProp implements Host.
func (h *MemoryHost) PatchProp(el *Node, key string, _, next any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if next == nil {
		delete(el.Props, key)
	} else {
		if el.Props == nil {
			el.Props = make(map[string]any)
		}
		el.Props[key] = next
	}
	h.record(Op{Kind: OpPatchProp, Node: el.ID, Key: key, Value: propString(next)})
}

// Insert implements Host.
func (h *MemoryHost) Insert(n, parent, anchor *Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	detach(n)

	i := len(parent.Children)
	anchorID := 0
	if anchor != nil {
		anchorID = anchor.ID
		if j := slices.Index(parent.Children, anchor); j >= 0 {
			i = j
		}
	}
	parent.Children = slices.Insert(parent.Children, i, n)
	n.Parent = parent
	h.record(Op{Kind: OpInsert, Node: n.ID, Parent: parent.ID, Anchor: anchorID})
}

// Remove implements Host.
func (h *MemoryHost) Remove(n *Node) {
	if n == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	detach(n)
	h.record(Op{Kind: OpRemove, Node: n.ID})
}

// NextSibling implements Host.
func (h *MemoryHost) NextSibling(n *Node) *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n == nil || n.Parent == nil {
		return nil
	}
	siblings := n.Parent.Children
	if i := slices.Index(siblings, n); i >= 0 && i+1 < len(siblings) {
		return siblings[i+1]
	}
	return nil
}

func detach(n *Node) {
	if n.Parent == nil {
		return
	}
	p := n.Parent
	p.Children = slices.DeleteFunc(p.Children, func(c *Node) bool { return c == n })
	n.Parent = nil
}

// HTML serializes the children of n. Empty text nodes, such as fragment
// anchors, produce no output.
func (n *Node) HTML() string {
	var b strings.Builder
	for _, c := range n.Children {
		c.writeHTML(&b)
	}
	return b.String()
}

// OuterHTML serializes n itself.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

func (n *Node) writeHTML(b *strings.Builder) {
	switch n.Kind {
	case NodeText:
		b.WriteString(escapeHTML(n.Text))
	case NodeComment:
		b.WriteString("<!--")
		b.WriteString(n.Text)
		b.WriteString("-->")
	default:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		n.writeAttributes(b)
		b.WriteByte('>')
		if isVoidElement(n.Tag) {
			return
		}
		for _, c := range n.Children {
			c.writeHTML(b)
		}
		fmt.Fprintf(b, "</%s>", n.Tag)
	}
}

// writeAttributes renders props in key order. Event handlers are skipped
// and boolean attributes render by presence.
func (n *Node) writeAttributes(b *strings.Builder) {
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		value := n.Props[key]
		if isEventHandler(value) {
			continue
		}
		if v, ok := value.(bool); ok && booleanAttrs[key] {
			if v {
				b.WriteByte(' ')
				b.WriteString(key)
			}
			continue
		}
		if s := propString(value); s != "" {
			fmt.Fprintf(b, ` %s="%s"`, key, escapeAttr(s))
		}
	}
}

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func isVoidElement(tag string) bool {
	return voidElements[tag]
}

// booleanAttrs render as a bare attribute name when true.
var booleanAttrs = map[string]bool{
	"checked": true, "disabled": true, "hidden": true, "multiple": true,
	"readonly": true, "required": true, "selected": true, "open": true,
}

func isEventHandler(value any) bool {
	return value != nil && reflect.TypeOf(value).Kind() == reflect.Func
}

// propString converts a property value to its serialized form.
func propString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		if isEventHandler(v) {
			return fmt.Sprintf("%T", v)
		}
		return fmt.Sprintf("%v", v)
	}
}
