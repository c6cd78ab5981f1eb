package reactivity

import (
	"runtime"
	"testing"
	"time"
)

type inspected struct {
	A, B int
}

func TestReadStats(t *testing.T) {
	before := ReadStats()

	p := MustReactive(&inspected{})
	e := CreateEffect(func() {
		_ = p.Get("A")
		_ = p.Get("B")
	})
	p.Set("A", 1)

	after := ReadStats()
	if got := after.EffectsCreated - before.EffectsCreated; got != 1 {
		t.Errorf("expected 1 effect created, got %d", got)
	}
	if got := after.Runs - before.Runs; got != 2 {
		t.Errorf("expected 2 runs, got %d", got)
	}
	if got := after.Tracks - before.Tracks; got != 4 {
		t.Errorf("expected 4 tracks, got %d", got)
	}
	if got := after.Triggers - before.Triggers; got != 1 {
		t.Errorf("expected 1 trigger, got %d", got)
	}
	if got := after.Properties - before.Properties; got != 2 {
		t.Errorf("expected 2 new properties, got %d", got)
	}

	e.Stop()
	if got := ReadStats().EffectsStopped - before.EffectsStopped; got != 1 {
		t.Errorf("expected 1 effect stopped, got %d", got)
	}
}

func TestInspect(t *testing.T) {
	target := &inspected{}
	p := MustReactive(target)
	e1 := CreateEffect(func() { _ = p.Get("B") })
	e2 := CreateEffect(func() {
		_ = p.Get("A")
		_ = p.Get("B")
	})
	defer e1.Stop()
	defer e2.Stop()

	var found *TargetInfo
	for _, ti := range Inspect() {
		if ti.Type != "reactivity.inspected" || len(ti.Properties) != 2 {
			continue
		}
		if ti.Properties[1].Key == "B" && len(ti.Properties[1].Effects) == 2 && ti.Properties[1].Effects[0] == e1.ID() {
			found = &ti
			break
		}
	}
	if found == nil {
		t.Fatal("expected target in Inspect output")
	}
	if !found.Wrapped {
		t.Error("expected target to be marked wrapped")
	}
	if found.Properties[0].Key != "A" || found.Properties[0].Effects[0] != e2.ID() {
		t.Errorf("unexpected property A: %+v", found.Properties[0])
	}
}

func wrappedOf(typeName string) (wrapped, found bool) {
	for _, ti := range Inspect() {
		if ti.Type == typeName {
			return ti.Wrapped, true
		}
	}
	return false, false
}

type unwrapped struct {
	A int
}

func TestInspectWrappedClearsWithProxy(t *testing.T) {
	const typeName = "reactivity.unwrapped"
	target := &unwrapped{}

	func() {
		MustReactive(target)
	}()
	if wrapped, found := wrappedOf(typeName); !found || !wrapped {
		t.Fatalf("expected a wrapped entry, got wrapped=%v found=%v", wrapped, found)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		wrapped, found := wrappedOf(typeName)
		if !found {
			t.Fatal("entry should stay while the target is reachable")
		}
		if !wrapped {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected Wrapped to clear once the proxy is collected")
		}
		time.Sleep(10 * time.Millisecond)
	}
	runtime.KeepAlive(target)
}
