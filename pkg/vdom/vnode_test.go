package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindComment, "Comment"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateVNodeShapeFlags(t *testing.T) {
	comp := Func(func(Props, Children) *VNode { return Text("x") })

	tests := []struct {
		name     string
		typ      any
		children Children
		kind     VKind
		want     ShapeFlags
	}{
		{"empty element", "div", NoChildren(), KindElement, ShapeElement},
		{"text children", "p", TextChildren("hi"), KindElement, ShapeElement | ShapeTextChildren},
		{"array children", "ul", ArrayChildren(Text("a")), KindElement, ShapeElement | ShapeArrayChildren},
		{"element slots", "div", FuncChildren(func() []*VNode { return []*VNode{Text("a")} }), KindElement, ShapeElement | ShapeArrayChildren},
		{"component", comp, NoChildren(), KindComponent, ShapeComponent},
		{"component slots", comp, SlotChildren(Slots{}), KindComponent, ShapeComponent | ShapeSlotsChildren},
		{"fragment", KindFragment, ArrayChildren(), KindFragment, ShapeArrayChildren},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := CreateVNode(tt.typ, nil, tt.children)
			if v.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.kind)
			}
			if v.ShapeFlag != tt.want {
				t.Errorf("ShapeFlag = %b, want %b", v.ShapeFlag, tt.want)
			}
		})
	}
}

func TestCreateVNodeKey(t *testing.T) {
	v := CreateVNode("li", Props{"key": 7, "class": "item"}, NoChildren())
	if v.Key != "7" {
		t.Errorf("Key = %q, want 7", v.Key)
	}
	if _, ok := v.Props["key"]; ok {
		t.Error("key should be removed from props")
	}
	if v.Props["class"] != "item" {
		t.Errorf("class = %v, want item", v.Props["class"])
	}

	only := CreateVNode("li", Props{"key": "a"}, NoChildren())
	if only.Props != nil {
		t.Errorf("expected nil props, got %v", only.Props)
	}
}

func TestCreateVNodeTextAndComment(t *testing.T) {
	text := CreateVNode(KindText, nil, TextChildren("hello"))
	if text.Kind != KindText || text.Text != "hello" {
		t.Errorf("unexpected text node %+v", text)
	}
	c := CreateVNode(KindComment, nil, TextChildren("note"))
	if c.Kind != KindComment || c.Text != "note" {
		t.Errorf("unexpected comment node %+v", c)
	}
}

func TestCreateVNodeInvalidType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid type")
		}
	}()
	CreateVNode(42, nil, NoChildren())
}

type counterComp struct{}

func (counterComp) Render(Props, Children) *VNode { return Text("count") }

func TestIsSameVNodeType(t *testing.T) {
	fn := Func(func(Props, Children) *VNode { return nil })

	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"same tag", Element("div", nil), Element("div", nil), true},
		{"different tag", Element("div", nil), Element("span", nil), false},
		{"different key", Element("li", Props{"key": 1}), Element("li", Props{"key": 2}), false},
		{"text", Text("a"), Text("b"), true},
		{"text vs comment", Text("a"), Comment("a"), false},
		{"same component type", Comp(counterComp{}, nil), Comp(counterComp{}, nil), true},
		{"different component type", Comp(counterComp{}, nil), Comp(fn, nil), false},
		{"nil", nil, Text("a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSameVNodeType(tt.a, tt.b); got != tt.want {
				t.Errorf("IsSameVNodeType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsVNode(t *testing.T) {
	var nilNode *VNode
	if !IsVNode(Text("a")) {
		t.Error("expected text node to be a VNode")
	}
	if IsVNode(nilNode) || IsVNode("a") || IsVNode(nil) {
		t.Error("expected false for nil and non-nodes")
	}
}

func TestFuncComponent(t *testing.T) {
	called := false
	comp := Func(func(props Props, children Children) *VNode {
		called = true
		return Element("div", Props{"class": props["class"]}, children.Slot(DefaultSlot))
	})

	node := comp.Render(Props{"class": "card"}, FuncChildren(func() []*VNode {
		return []*VNode{Text("body")}
	}))

	if !called {
		t.Error("Func component was not called")
	}
	if node == nil {
		t.Fatal("Render returned nil")
	}
	if node.Tag != "div" || node.Props["class"] != "card" {
		t.Errorf("unexpected node %+v", node)
	}
	if len(node.Children.Nodes()) != 1 || node.Children.Nodes()[0].Text != "body" {
		t.Errorf("expected slot content, got %+v", node.Children)
	}
}
