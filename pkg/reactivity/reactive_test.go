package reactivity

import (
	"errors"
	"testing"
)

type counter struct {
	A     int
	Name  string
	Tags  []string
	Any   any
	inner int
}

type embedded struct {
	*counter
	Own int
}

func TestReactiveIsIdempotent(t *testing.T) {
	c := &counter{A: 1}
	p1 := MustReactive(c)
	p2 := MustReactive(c)
	if p1 != p2 {
		t.Error("expected the same proxy for the same target")
	}
	if p1.Raw() != c {
		t.Error("Raw should return the target")
	}
	if !IsReactive(p1) {
		t.Error("expected IsReactive to report true")
	}
	if IsReactive(c) {
		t.Error("raw target is not reactive")
	}
}

func TestReactiveRejectsNonStruct(t *testing.T) {
	n := 5
	if _, err := Reactive(&n); !errors.Is(err, ErrNotWrappable) {
		t.Errorf("expected ErrNotWrappable, got %v", err)
	}
	if _, err := Reactive[counter](nil); !errors.Is(err, ErrNotWrappable) {
		t.Errorf("expected ErrNotWrappable for nil target, got %v", err)
	}
	if _, err := Reactive(&struct{}{}); !errors.Is(err, ErrNotWrappable) {
		t.Errorf("expected ErrNotWrappable for an empty struct, got %v", err)
	}
}

type settings struct {
	Theme string
	Scale int
}

var globalSettings = settings{Theme: "dark"}

func TestReactivePackageVar(t *testing.T) {
	p, err := Reactive(&globalSettings)
	if err != nil {
		t.Fatalf("Reactive: %v", err)
	}
	if again := MustReactive(&globalSettings); again != p {
		t.Error("expected the same proxy for a package-level target")
	}

	runs := 0
	var theme any
	e := CreateEffect(func() {
		runs++
		theme = p.Get("Theme")
	})
	defer e.Stop()

	if err := p.Set("Theme", "light"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if runs != 2 || theme != "light" {
		t.Errorf("expected rerun with light, got %d runs and %v", runs, theme)
	}
	if globalSettings.Theme != "light" {
		t.Errorf("expected the variable to be updated, got %q", globalSettings.Theme)
	}
}

type outer struct {
	Inner settings
	Count int
}

func TestReactiveFieldSharingAddress(t *testing.T) {
	o := &outer{}
	po := MustReactive(o)
	pi := MustReactive(&o.Inner)

	outerRuns, innerRuns := 0, 0
	e1 := CreateEffect(func() {
		outerRuns++
		_ = po.Get("Count")
	})
	defer e1.Stop()
	e2 := CreateEffect(func() {
		innerRuns++
		_ = pi.Get("Theme")
	})
	defer e2.Stop()

	pi.Set("Theme", "light")
	if outerRuns != 1 || innerRuns != 2 {
		t.Errorf("expected only the inner effect to rerun, got outer=%d inner=%d", outerRuns, innerRuns)
	}
}

func TestReactiveGetSet(t *testing.T) {
	p := MustReactive(&counter{A: 1, Name: "x"})

	if got := Field[int](p, "A"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if err := p.Set("A", 7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p.Raw().A != 7 {
		t.Errorf("expected target to be updated, got %d", p.Raw().A)
	}
	if got := Field[string](p, "A"); got != "" {
		t.Errorf("expected zero value for wrong type, got %q", got)
	}
	if p.Get("Missing") != nil {
		t.Error("unknown field should read as nil")
	}
	if p.Get("inner") != nil {
		t.Error("unexported field should read as nil")
	}
}

func TestReactiveSetErrors(t *testing.T) {
	p := MustReactive(&counter{})

	tests := []struct {
		name  string
		key   string
		value any
		want  error
	}{
		{"unknown", "Missing", 1, ErrUnknownProperty},
		{"unexported", "inner", 1, ErrUnexportedProperty},
		{"mismatch", "A", "one", ErrTypeMismatch},
		{"nil into int", "A", nil, ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Set(tt.key, tt.value); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if err := p.Set("Tags", nil); err != nil {
		t.Errorf("nil should be assignable to a slice: %v", err)
	}
	if err := p.Set("Any", 3.5); err != nil {
		t.Errorf("any value should be assignable to an interface: %v", err)
	}
}

func TestReactiveTracksPerProperty(t *testing.T) {
	p := MustReactive(&counter{A: 1})
	aRuns, nameRuns := 0, 0
	CreateEffect(func() {
		aRuns++
		_ = p.Get("A")
	})
	CreateEffect(func() {
		nameRuns++
		_ = p.Get("Name")
	})

	p.Set("A", 2)
	if aRuns != 2 || nameRuns != 1 {
		t.Errorf("expected a=2 name=1, got a=%d name=%d", aRuns, nameRuns)
	}

	// Writes trigger even when the value is unchanged.
	p.Set("A", 2)
	if aRuns != 3 {
		t.Errorf("expected every write to trigger, got %d runs", aRuns)
	}
}

func TestReactiveUnknownKeyTracked(t *testing.T) {
	p := MustReactive(&counter{})
	CreateEffect(func() { _ = p.Get("Missing") })
	if d := DepOf(p.Raw(), "Missing"); d == nil || d.Len() != 1 {
		t.Error("expected reads of unknown keys to be tracked")
	}
}

func TestReactivePromotedFields(t *testing.T) {
	p := MustReactive(&embedded{counter: &counter{A: 4}})
	if got := Field[int](p, "A"); got != 4 {
		t.Errorf("expected promoted field 4, got %d", got)
	}

	nilEmbed := MustReactive(&embedded{})
	if nilEmbed.Get("A") != nil {
		t.Error("field behind nil embedded pointer should read as nil")
	}
	if err := nilEmbed.Set("A", 1); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("expected ErrUnknownProperty, got %v", err)
	}
}

func TestReactiveProxyAndRawShareDeps(t *testing.T) {
	c := &counter{}
	p := MustReactive(c)
	runs := 0
	CreateEffect(func() {
		runs++
		_ = p.Get("A")
	})

	c.A = 3
	Trigger(c, "A")
	if runs != 2 {
		t.Errorf("Trigger on the raw target should reach proxy readers, got %d runs", runs)
	}
}
