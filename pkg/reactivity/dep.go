package reactivity

import (
	"slices"
	"sync"
)

// Dep is the set of effects subscribed to one slot: one property of one
// reactive target, one Ref, or one Computed. An effect appears in a Dep at
// most once; iteration follows subscription order.
type Dep struct {
	id     uint64
	source Source
	label  string
	key    string

	mu      sync.RWMutex
	effects []*Effect
	members map[*Effect]struct{}

	// onEmpty is called after the last effect has been removed.
	onEmpty func(*Dep)
}

// NewDep creates an empty Dep for a custom trackable slot. Read the slot with
// TrackDep and notify it with TriggerDep.
func NewDep() *Dep {
	return newDep(SourceDep, "dep", "")
}

func newDep(source Source, label, key string) *Dep {
	return &Dep{
		id:      nextID(),
		source:  source,
		label:   label,
		key:     key,
		members: make(map[*Effect]struct{}),
	}
}

// ID returns the unique identifier for this dep.
func (d *Dep) ID() uint64 {
	return d.id
}

// Add subscribes e. It reports false if e was already a member.
func (d *Dep) Add(e *Effect) bool {
	if e == nil {
		return false
	}

	d.mu.Lock()
	if _, ok := d.members[e]; ok {
		d.mu.Unlock()
		return false
	}
	d.members[e] = struct{}{}
	d.effects = append(d.effects, e)
	d.mu.Unlock()

	e.addDep(d)
	return true
}

// Has reports whether e is subscribed.
func (d *Dep) Has(e *Effect) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.members[e]
	return ok
}

// Len returns the number of subscribed effects.
func (d *Dep) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.effects)
}

// Effects returns a snapshot of the subscribers in subscription order.
func (d *Dep) Effects() []*Effect {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.effects)
}

// Each calls fn for every subscriber in a snapshot taken before the first
// call, so fn may add subscribers without affecting the iteration.
func (d *Dep) Each(fn func(*Effect)) {
	for _, e := range d.Effects() {
		fn(e)
	}
}

// remove unsubscribes e. Only stopped effects leave a Dep.
func (d *Dep) remove(e *Effect) {
	d.mu.Lock()
	if _, ok := d.members[e]; !ok {
		d.mu.Unlock()
		return
	}
	delete(d.members, e)
	d.effects = slices.DeleteFunc(d.effects, func(x *Effect) bool { return x == e })
	empty := len(d.effects) == 0
	onEmpty := d.onEmpty
	d.mu.Unlock()

	if empty && onEmpty != nil {
		onEmpty(d)
	}
}
