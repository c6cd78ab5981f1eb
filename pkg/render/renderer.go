package render

import (
	"log/slog"
	"reflect"
	"slices"

	"github.com/vango-dev/reactivity/pkg/vdom"
)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for mount and unmount diagnostics, written at
// Debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Renderer mounts and patches VNode trees through a Host.
type Renderer[N comparable] struct {
	host   Host[N]
	roots  map[N]*vdom.VNode
	logger *slog.Logger
}

// New creates a Renderer for host.
func New[N comparable](host Host[N], opts ...Option) *Renderer[N] {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer[N]{
		host:   host,
		roots:  make(map[N]*vdom.VNode),
		logger: o.logger,
	}
}

// Render patches container to show v, mounting on first use. A nil v
// unmounts whatever container currently shows.
func (r *Renderer[N]) Render(v *vdom.VNode, container N) {
	prev := r.roots[container]
	if v == nil {
		if prev != nil {
			r.unmount(prev, true)
			delete(r.roots, container)
		}
		return
	}
	var zero N
	r.patch(prev, v, container, zero)
	r.roots[container] = v
}

// Root returns the tree last rendered into container, or nil.
func (r *Renderer[N]) Root(container N) *vdom.VNode {
	return r.roots[container]
}

// node extracts a host node stored on a VNode.
func node[N comparable](v any) N {
	n, _ := v.(N)
	return n
}

// patch brings the host in line with v, given that old is what is mounted
// in its place (nil when nothing is).
func (r *Renderer[N]) patch(old, v *vdom.VNode, container, anchor N) {
	if old == v {
		return
	}
	if old != nil && !vdom.IsSameVNodeType(old, v) {
		anchor = r.nextSibling(old)
		r.unmount(old, true)
		old = nil
	}

	switch v.Kind {
	case vdom.KindText:
		r.processText(old, v, container, anchor)
	case vdom.KindComment:
		r.processComment(old, v, container, anchor)
	case vdom.KindFragment:
		r.processFragment(old, v, container, anchor)
	default:
		if v.ShapeFlag.Has(vdom.ShapeElement) {
			r.processElement(old, v, container, anchor)
		} else if v.ShapeFlag.Has(vdom.ShapeComponent) {
			r.processComponent(old, v, container, anchor)
		}
	}
}

func (r *Renderer[N]) processText(old, v *vdom.VNode, container, anchor N) {
	if old == nil {
		el := r.host.CreateText(v.Text)
		v.El = el
		r.host.Insert(el, container, anchor)
		return
	}
	v.El = old.El
	if v.Text != old.Text {
		r.host.SetText(node[N](v.El), v.Text)
	}
}

// processComment mounts a comment. Comments are static once mounted.
func (r *Renderer[N]) processComment(old, v *vdom.VNode, container, anchor N) {
	if old == nil {
		el := r.host.CreateComment(v.Text)
		v.El = el
		r.host.Insert(el, container, anchor)
		return
	}
	v.El = old.El
}

// processFragment brackets the fragment's children between two empty text
// anchors so they can be patched in place among their siblings.
func (r *Renderer[N]) processFragment(old, v *vdom.VNode, container, anchor N) {
	if old == nil {
		start, end := r.host.CreateText(""), r.host.CreateText("")
		v.El, v.Anchor = start, end
		r.host.Insert(start, container, anchor)
		r.host.Insert(end, container, anchor)
		r.mountChildren(v.Children.Nodes(), container, end)
		return
	}
	v.El, v.Anchor = old.El, old.Anchor
	r.patchChildren(old, v, container, node[N](v.Anchor))
}

func (r *Renderer[N]) processElement(old, v *vdom.VNode, container, anchor N) {
	if old == nil {
		r.mountElement(v, container, anchor)
		return
	}
	r.patchElement(old, v)
}

func (r *Renderer[N]) mountElement(v *vdom.VNode, container, anchor N) {
	el := r.host.CreateElement(v.Tag)
	v.El = el

	var zero N
	switch {
	case v.ShapeFlag.Has(vdom.ShapeTextChildren):
		r.host.SetElementText(el, v.Children.Text())
	case v.ShapeFlag.Has(vdom.ShapeArrayChildren):
		r.mountChildren(v.Children.Nodes(), el, zero)
	}

	for _, k := range sortedKeys(v.Props) {
		r.host.PatchProp(el, k, nil, v.Props[k])
	}
	r.host.Insert(el, container, anchor)
}

func (r *Renderer[N]) patchElement(old, v *vdom.VNode) {
	v.El = old.El
	el := node[N](v.El)

	var zero N
	r.patchChildren(old, v, el, zero)
	r.patchProps(el, old.Props, v.Props)
}

func (r *Renderer[N]) patchProps(el N, prev, next vdom.Props) {
	for _, k := range sortedKeys(next) {
		if p, ok := prev[k]; !ok || !sameProp(p, next[k]) {
			r.host.PatchProp(el, k, prev[k], next[k])
		}
	}
	for _, k := range sortedKeys(prev) {
		if _, ok := next[k]; !ok {
			r.host.PatchProp(el, k, prev[k], nil)
		}
	}
}

// patchChildren reconciles the children of old and v inside container.
// New nodes are inserted before anchor.
func (r *Renderer[N]) patchChildren(old, v *vdom.VNode, container, anchor N) {
	prevFlag, nextFlag := old.ShapeFlag, v.ShapeFlag

	switch {
	case nextFlag.Has(vdom.ShapeTextChildren):
		if prevFlag.Has(vdom.ShapeArrayChildren) {
			r.unmountChildren(old.Children.Nodes())
		}
		if !prevFlag.Has(vdom.ShapeTextChildren) || old.Children.Text() != v.Children.Text() {
			r.host.SetElementText(container, v.Children.Text())
		}

	case nextFlag.Has(vdom.ShapeArrayChildren):
		if prevFlag.Has(vdom.ShapeArrayChildren) {
			r.patchKeylessChildren(old.Children.Nodes(), v.Children.Nodes(), container, anchor)
			return
		}
		if prevFlag.Has(vdom.ShapeTextChildren) {
			r.host.SetElementText(container, "")
		}
		r.mountChildren(v.Children.Nodes(), container, anchor)

	default:
		if prevFlag.Has(vdom.ShapeArrayChildren) {
			r.unmountChildren(old.Children.Nodes())
		} else if prevFlag.Has(vdom.ShapeTextChildren) {
			r.host.SetElementText(container, "")
		}
	}
}

// patchKeylessChildren patches children pairwise by index, then mounts or
// unmounts the tail.
func (r *Renderer[N]) patchKeylessChildren(prev, next []*vdom.VNode, container, anchor N) {
	common := min(len(prev), len(next))
	for i := range common {
		r.patch(prev[i], next[i], container, anchor)
	}
	if len(prev) > len(next) {
		r.unmountChildren(prev[common:])
		return
	}
	r.mountChildren(next[common:], container, anchor)
}

func (r *Renderer[N]) mountChildren(children []*vdom.VNode, container, anchor N) {
	for _, c := range children {
		r.patch(nil, c, container, anchor)
	}
}

func (r *Renderer[N]) unmountChildren(children []*vdom.VNode) {
	for _, c := range children {
		r.unmount(c, true)
	}
}

// unmount tears down v. Host nodes are removed only when doRemove is set;
// descendants of a removed element leave with it, but their components
// still have their effects stopped.
func (r *Renderer[N]) unmount(v *vdom.VNode, doRemove bool) {
	switch v.Kind {
	case vdom.KindComponent:
		r.unmountComponent(v, doRemove)
	case vdom.KindFragment:
		for _, c := range v.Children.Nodes() {
			r.unmount(c, doRemove)
		}
		if doRemove {
			r.host.Remove(node[N](v.El))
			r.host.Remove(node[N](v.Anchor))
		}
	case vdom.KindElement:
		for _, c := range v.Children.Nodes() {
			r.unmount(c, false)
		}
		if doRemove {
			r.host.Remove(node[N](v.El))
		}
	default:
		if doRemove {
			r.host.Remove(node[N](v.El))
		}
	}
}

// nextSibling returns the host node following everything v mounted.
func (r *Renderer[N]) nextSibling(v *vdom.VNode) N {
	switch v.Kind {
	case vdom.KindComponent:
		if inst, ok := v.Instance.(*instance); ok && inst.subTree != nil {
			return r.nextSibling(inst.subTree)
		}
	case vdom.KindFragment:
		return r.host.NextSibling(node[N](v.Anchor))
	}
	return r.host.NextSibling(node[N](v.El))
}

func sortedKeys(p vdom.Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// sameProp reports whether a prop value is unchanged. Functions always
// count as changed.
func sameProp(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || va.Kind() == reflect.Func {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
