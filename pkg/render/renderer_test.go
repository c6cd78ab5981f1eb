package render

import (
	"fmt"
	"testing"

	"github.com/vango-dev/reactivity/pkg/reactivity"
	"github.com/vango-dev/reactivity/pkg/vdom"
)

func newTestRenderer() (*MemoryHost, *Node, *Renderer[*Node]) {
	host := NewMemoryHost()
	return host, host.Container(), New[*Node](host)
}

func TestMountReRendersOnChange(t *testing.T) {
	host, root, r := newTestRenderer()
	count := reactivity.NewRef(0)

	app := r.Mount(root, func() *vdom.VNode {
		return vdom.Element("p", vdom.Props{"class": "n"}, fmt.Sprint(count.Get()))
	})

	if got := root.HTML(); got != `<p class="n">0</p>` {
		t.Errorf("initial HTML = %s", got)
	}

	host.Reset()
	count.Set(1)
	if got := root.HTML(); got != `<p class="n">1</p>` {
		t.Errorf("updated HTML = %s", got)
	}
	ops := host.Ops()
	if len(ops) != 1 || ops[0].Kind != OpSetElementText {
		t.Errorf("expected a single SetElementText, got %v", ops)
	}

	app.Unmount()
	if root.HTML() != "" {
		t.Errorf("expected empty container, got %s", root.HTML())
	}
	if count.Subscribers() != 0 {
		t.Errorf("expected no subscribers after unmount, got %d", count.Subscribers())
	}
	if r.Root(root) != nil {
		t.Error("expected no root after unmount")
	}
}

func TestRenderKeylessChildren(t *testing.T) {
	_, root, r := newTestRenderer()
	items := reactivity.NewRef([]string{"a", "b"})

	r.Mount(root, func() *vdom.VNode {
		return vdom.Element("ul", nil, vdom.Range(items.Get(), func(s string, _ int) *vdom.VNode {
			return vdom.Element("li", nil, s)
		}))
	})

	tests := []struct {
		items []string
		want  string
	}{
		{[]string{"a", "c", "d"}, "<ul><li>a</li><li>c</li><li>d</li></ul>"},
		{[]string{"x"}, "<ul><li>x</li></ul>"},
		{nil, "<ul></ul>"},
		{[]string{"y", "z"}, "<ul><li>y</li><li>z</li></ul>"},
	}
	for _, tt := range tests {
		items.Set(tt.items)
		if got := root.HTML(); got != tt.want {
			t.Errorf("items %v: HTML = %s, want %s", tt.items, got, tt.want)
		}
	}
}

func TestRenderReplacesDifferentType(t *testing.T) {
	_, root, r := newTestRenderer()
	para := reactivity.NewRef(true)

	r.Mount(root, func() *vdom.VNode {
		var middle *vdom.VNode
		if para.Get() {
			middle = vdom.Element("p", nil, "x")
		} else {
			middle = vdom.Comment("gone")
		}
		return vdom.Element("div", nil, vdom.Text("before"), middle, vdom.Text("after"))
	})

	if got := root.HTML(); got != "<div>before<p>x</p>after</div>" {
		t.Errorf("initial HTML = %s", got)
	}
	para.Set(false)
	if got := root.HTML(); got != "<div>before<!--gone-->after</div>" {
		t.Errorf("replaced HTML = %s", got)
	}
	para.Set(true)
	if got := root.HTML(); got != "<div>before<p>x</p>after</div>" {
		t.Errorf("restored HTML = %s", got)
	}
}

func TestRenderFragmentAnchors(t *testing.T) {
	_, root, r := newTestRenderer()
	n := reactivity.NewRef(2)

	r.Mount(root, func() *vdom.VNode {
		items := make([]*vdom.VNode, n.Get())
		for i := range items {
			items[i] = vdom.Element("i", nil, fmt.Sprint(i))
		}
		return vdom.Element("div", nil, vdom.Fragment(items), vdom.Element("b", nil, "end"))
	})

	if got := root.HTML(); got != "<div><i>0</i><i>1</i><b>end</b></div>" {
		t.Errorf("initial HTML = %s", got)
	}
	n.Set(3)
	if got := root.HTML(); got != "<div><i>0</i><i>1</i><i>2</i><b>end</b></div>" {
		t.Errorf("grown HTML = %s", got)
	}
	n.Set(0)
	if got := root.HTML(); got != "<div><b>end</b></div>" {
		t.Errorf("emptied HTML = %s", got)
	}
}

func TestRenderChildrenTransitions(t *testing.T) {
	_, root, r := newTestRenderer()

	r.Render(vdom.Element("div", nil, "text"), root)
	if got := root.HTML(); got != "<div>text</div>" {
		t.Errorf("text HTML = %s", got)
	}

	r.Render(vdom.Element("div", nil, vdom.Element("a", nil), vdom.Element("b", nil)), root)
	if got := root.HTML(); got != "<div><a></a><b></b></div>" {
		t.Errorf("array HTML = %s", got)
	}

	r.Render(vdom.Element("div", nil), root)
	if got := root.HTML(); got != "<div></div>" {
		t.Errorf("empty HTML = %s", got)
	}

	r.Render(vdom.Element("div", nil, "again"), root)
	if got := root.HTML(); got != "<div>again</div>" {
		t.Errorf("text again HTML = %s", got)
	}

	r.Render(nil, root)
	if got := root.HTML(); got != "" {
		t.Errorf("expected empty container, got %s", got)
	}
}

func TestRenderPatchProps(t *testing.T) {
	host, root, r := newTestRenderer()

	r.Render(vdom.Element("input", vdom.Props{"title": "a", "disabled": true, "value": 1}), root)
	if got := root.HTML(); got != `<input disabled title="a" value="1">` {
		t.Errorf("initial HTML = %s", got)
	}

	host.Reset()
	r.Render(vdom.Element("input", vdom.Props{"disabled": false, "value": 1}), root)
	if got := root.HTML(); got != `<input value="1">` {
		t.Errorf("patched HTML = %s", got)
	}
	if got := host.Count(OpPatchProp); got != 2 {
		t.Errorf("expected 2 prop patches, got %d: %v", got, host.Ops())
	}
}

func TestComponentRendersInOwnEffect(t *testing.T) {
	_, root, r := newTestRenderer()
	parent := reactivity.NewRef(0)
	child := reactivity.NewRef(0)
	rootRenders, childRenders := 0, 0

	counter := vdom.Func(func(props vdom.Props, _ vdom.Children) *vdom.VNode {
		childRenders++
		return vdom.Element("span", nil, fmt.Sprintf("%v:%d", props["label"], child.Get()))
	})

	app := r.Mount(root, func() *vdom.VNode {
		rootRenders++
		p := parent.Get()
		return vdom.Element("div", nil, vdom.Textf("%d", p), vdom.Comp(counter, vdom.Props{"label": p}))
	})

	if got := root.HTML(); got != "<div>0<span>0:0</span></div>" {
		t.Errorf("initial HTML = %s", got)
	}

	child.Set(1)
	if rootRenders != 1 || childRenders != 2 {
		t.Errorf("expected only the component to re-render, got root=%d child=%d", rootRenders, childRenders)
	}
	if got := root.HTML(); got != "<div>0<span>0:1</span></div>" {
		t.Errorf("child update HTML = %s", got)
	}

	parent.Set(5)
	if rootRenders != 2 || childRenders != 3 {
		t.Errorf("expected parent and component to re-render, got root=%d child=%d", rootRenders, childRenders)
	}
	if got := root.HTML(); got != "<div>5<span>5:1</span></div>" {
		t.Errorf("prop update HTML = %s", got)
	}

	app.Unmount()
	if child.Subscribers() != 0 {
		t.Errorf("expected component effect stopped, got %d subscribers", child.Subscribers())
	}
}

func TestComponentReplacedStopsEffect(t *testing.T) {
	_, root, r := newTestRenderer()
	show := reactivity.NewRef(true)
	state := reactivity.NewRef("s")

	comp := vdom.Func(func(vdom.Props, vdom.Children) *vdom.VNode {
		return vdom.Element("em", nil, state.Get())
	})

	r.Mount(root, func() *vdom.VNode {
		if show.Get() {
			return vdom.Element("div", nil, vdom.Comp(comp, nil))
		}
		return vdom.Element("div", nil, vdom.Element("hr", nil))
	})

	if state.Subscribers() != 1 {
		t.Fatalf("expected component subscribed, got %d", state.Subscribers())
	}
	show.Set(false)
	if got := root.HTML(); got != "<div><hr></div>" {
		t.Errorf("HTML = %s", got)
	}
	if state.Subscribers() != 0 {
		t.Errorf("replaced component should stop its effect, got %d subscribers", state.Subscribers())
	}
}

func TestComponentSlotsAndNilRender(t *testing.T) {
	_, root, r := newTestRenderer()

	card := vdom.Func(func(_ vdom.Props, children vdom.Children) *vdom.VNode {
		return vdom.Element("section", nil, children.Slot("header"), children.Slot(vdom.DefaultSlot))
	})
	empty := vdom.Func(func(vdom.Props, vdom.Children) *vdom.VNode { return nil })

	r.Render(vdom.Fragment(
		vdom.Comp(card, nil, vdom.Slots{
			"header":  func() []*vdom.VNode { return []*vdom.VNode{vdom.Element("h1", nil, "T")} },
			"default": func() []*vdom.VNode { return []*vdom.VNode{vdom.Text("body")} },
		}),
		vdom.Comp(empty, nil),
	), root)

	if got := root.HTML(); got != "<section><h1>T</h1>body</section><!---->" {
		t.Errorf("HTML = %s", got)
	}
}

func TestSameProp(t *testing.T) {
	fn := func() {}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal strings", "a", "a", true},
		{"different ints", 1, 2, false},
		{"nil", nil, nil, true},
		{"nil vs value", nil, "a", false},
		{"funcs", fn, fn, false},
		{"slices", []int{1}, []int{1}, true},
		{"types", 1, "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameProp(tt.a, tt.b); got != tt.want {
				t.Errorf("sameProp(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
