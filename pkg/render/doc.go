// Package render mounts VNode trees onto a host and keeps them in sync with
// reactive state.
//
// The renderer is host-agnostic: a Host creates, inserts, updates and
// removes host nodes, and the renderer decides which of those operations a
// new tree needs. MemoryHost is an in-memory host that records every
// operation, for tests and tooling.
//
// # Basic Usage
//
//	host := render.NewMemoryHost()
//	root := host.Container()
//	r := render.New[*render.Node](host)
//
//	count := reactivity.NewRef(0)
//	app := r.Mount(root, func() *vdom.VNode {
//	    return vdom.Element("p", nil, fmt.Sprint(count.Get()))
//	})
//	count.Set(1) // re-renders; the host sees a single SetElementText
//	app.Unmount()
//
// # Components
//
// Every mounted component instance renders inside its own effect, so a
// change to state read by one component re-renders that component only.
// Unmounting a component stops its effect.
//
// # Reconciliation
//
// Children are patched by position. Nodes of a different kind, tag,
// component type or key are replaced; keys are not used to move nodes.
//
// A Renderer is not safe for concurrent use. Drive the state it reads from
// one goroutine at a time.
package render
