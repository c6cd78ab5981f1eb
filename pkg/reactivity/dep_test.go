package reactivity

import "testing"

func TestDepAddIsIdempotent(t *testing.T) {
	d := NewDep()
	e := NewEffect(func() {})

	if !d.Add(e) {
		t.Error("expected first Add to report true")
	}
	if d.Add(e) {
		t.Error("expected second Add to report false")
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 member, got %d", d.Len())
	}
	if !d.Has(e) {
		t.Error("expected Has to report membership")
	}
	if d.Add(nil) {
		t.Error("nil effect should not be added")
	}
}

func TestDepSubscriptionOrder(t *testing.T) {
	d := NewDep()
	var order []int
	for i := range 4 {
		CreateEffect(func() {
			TrackDep(d)
			order = append(order, i)
		})
	}

	order = nil
	TriggerDep(d)

	want := []int{0, 1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("expected %v, got %v", want, order)
			break
		}
	}
}

func TestDepTriggerEmpty(t *testing.T) {
	TriggerDep(NewDep())
	TriggerDep(nil)
}

func TestDepEachSnapshot(t *testing.T) {
	d := NewDep()
	d.Add(NewEffect(func() {}))

	visited := 0
	d.Each(func(*Effect) {
		visited++
		d.Add(NewEffect(func() {}))
	})
	if visited != 1 {
		t.Errorf("expected 1 visit, got %d", visited)
	}
	if d.Len() != 2 {
		t.Errorf("expected 2 members, got %d", d.Len())
	}
}

func TestDepAddedDuringTriggerNotRunInSameFanOut(t *testing.T) {
	d := NewDep()
	runs, late := 0, 0
	CreateEffect(func() {
		TrackDep(d)
		runs++
		if runs == 2 {
			CreateEffect(func() {
				TrackDep(d)
				late++
			})
		}
	})

	TriggerDep(d)
	if late != 1 {
		t.Errorf("expected late effect to run once on creation, got %d", late)
	}
	if d.Len() != 2 {
		t.Errorf("expected 2 members, got %d", d.Len())
	}
}
