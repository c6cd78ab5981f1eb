package render

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/reactivity/pkg/reactivity"
	"github.com/vango-dev/reactivity/pkg/vdom"
)

// instance is the mounted state of one component vnode.
type instance struct {
	vnode   *vdom.VNode
	subTree *vdom.VNode
	effect  *reactivity.Effect
}

func (r *Renderer[N]) processComponent(old, v *vdom.VNode, container, anchor N) {
	if old == nil {
		r.mountComponent(v, container, anchor)
		return
	}
	r.updateComponent(old, v)
}

// mountComponent renders the component inside a new effect. The effect
// re-renders the subtree whenever state read by Render changes, and patches
// it against the previous subtree.
func (r *Renderer[N]) mountComponent(v *vdom.VNode, container, anchor N) {
	inst := &instance{vnode: v}
	v.Instance = inst

	name := fmt.Sprintf("component %T", v.Comp)
	inst.effect = reactivity.CreateEffect(func() {
		cur := inst.vnode
		next := cur.Comp.Render(cur.Props, cur.Children)
		if next == nil {
			next = vdom.Comment("")
		}

		if inst.subTree == nil {
			r.patch(nil, next, container, anchor)
		} else {
			var zero N
			r.patch(inst.subTree, next, container, zero)
		}
		inst.subTree = next
		cur.El = next.El
	}, reactivity.WithName(name))

	r.logger.Debug("mount component",
		slog.String("component", name),
		slog.Uint64("effect", inst.effect.ID()),
	)
}

// updateComponent hands the instance to the new vnode and re-renders it
// with the new props and children.
func (r *Renderer[N]) updateComponent(old, v *vdom.VNode) {
	inst, ok := old.Instance.(*instance)
	if !ok {
		return
	}
	v.Instance = inst
	inst.vnode = v
	inst.effect.Run()
}

func (r *Renderer[N]) unmountComponent(v *vdom.VNode, doRemove bool) {
	inst, ok := v.Instance.(*instance)
	if !ok {
		return
	}
	inst.effect.Stop()
	if inst.subTree != nil {
		r.unmount(inst.subTree, doRemove)
	}

	r.logger.Debug("unmount component",
		slog.String("component", inst.effect.Name()),
		slog.Uint64("effect", inst.effect.ID()),
	)
}

// App is a tree mounted with Mount.
type App[N comparable] struct {
	renderer  *Renderer[N]
	container N
	effect    *reactivity.Effect
}

// Mount renders the tree returned by render into container and re-renders it
// whenever reactive state read by render changes.
func (r *Renderer[N]) Mount(container N, render func() *vdom.VNode) *App[N] {
	a := &App[N]{renderer: r, container: container}
	a.effect = reactivity.CreateEffect(func() {
		r.Render(render(), container)
	}, reactivity.WithName("root"))
	return a
}

// Effect returns the effect driving the root render.
func (a *App[N]) Effect() *reactivity.Effect {
	return a.effect
}

// Unmount stops re-rendering and removes the tree from its container.
func (a *App[N]) Unmount() {
	a.effect.Stop()
	a.renderer.Render(nil, a.container)
}
