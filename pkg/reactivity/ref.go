package reactivity

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/vango-dev/reactivity/internal/errors"
)

// refBase is the subscriber bookkeeping shared by Ref, ObjectRef and
// Computed. Its Dep is created on the first tracked read.
type refBase struct {
	source Source
	label  string

	depMu sync.Mutex
	dep   *Dep
}

func (b *refBase) isRef() {}

// trackValue subscribes the active effect to this ref.
func (b *refBase) trackValue() {
	if activeEffect() == nil {
		return
	}
	b.depMu.Lock()
	if b.dep == nil {
		b.dep = newDep(b.source, b.label, "")
	}
	d := b.dep
	b.depMu.Unlock()
	trackDep(d)
}

// triggerValue notifies this ref's subscribers.
func (b *refBase) triggerValue() {
	b.depMu.Lock()
	d := b.dep
	b.depMu.Unlock()
	triggerEffects(d)
}

// subscribers returns the number of effects subscribed to this ref.
func (b *refBase) subscribers() int {
	b.depMu.Lock()
	d := b.dep
	b.depMu.Unlock()
	if d == nil {
		return 0
	}
	return d.Len()
}

// Ref is a single reactive cell. Get subscribes the active effect; Set
// notifies subscribers when, and only when, the value changes.
//
// Change detection uses same-value semantics: NaN equals NaN, +0 and -0
// differ, maps and slices compare by identity. WithEquals overrides it.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	refBase

	value T
	mu    sync.RWMutex

	equal func(T, T) bool
}

// NewRef creates a Ref holding value.
func NewRef[T any](value T) *Ref[T] {
	return &Ref[T]{
		refBase: refBase{source: SourceRef, label: fmt.Sprintf("ref#%d", nextID())},
		value:   value,
	}
}

// RefOf returns v unchanged if it is already a *Ref[T], and a new Ref
// holding v if v is a T. Any other value fails with ErrNotRef.
func RefOf[T any](v any) (*Ref[T], error) {
	switch x := v.(type) {
	case *Ref[T]:
		return x, nil
	case T:
		return NewRef(x), nil
	case nil:
		if nilable(reflect.TypeFor[T]()) {
			var zero T
			return NewRef(zero), nil
		}
	}
	var zero T
	return nil, errors.New("E005").WithDetailf("cannot make a Ref[%T] from %T", zero, v)
}

// IsRef reports whether v is a Ref, an ObjectRef or a Computed.
func IsRef(v any) bool {
	_, ok := v.(interface{ isRef() })
	return ok
}

// Get returns the current value and subscribes the active effect.
func (r *Ref[T]) Get() T {
	r.trackValue()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Peek returns the current value without subscribing.
func (r *Ref[T]) Peek() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set stores value and triggers subscribers if it differs from the current
// value. Setting an equal value has no effect.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	if r.equals(r.value, value) {
		r.mu.Unlock()
		return
	}
	r.value = value
	r.mu.Unlock()

	r.triggerValue()
}

// Update atomically replaces the value with fn(current) and triggers
// subscribers if it changed.
func (r *Ref[T]) Update(fn func(T) T) {
	r.mu.Lock()
	next := fn(r.value)
	if r.equals(r.value, next) {
		r.mu.Unlock()
		return
	}
	r.value = next
	r.mu.Unlock()

	r.triggerValue()
}

// WithEquals configures a custom equality function for change detection.
func (r *Ref[T]) WithEquals(fn func(T, T) bool) *Ref[T] {
	r.mu.Lock()
	r.equal = fn
	r.mu.Unlock()
	return r
}

// Subscribers returns the number of effects subscribed to the ref.
func (r *Ref[T]) Subscribers() int {
	return r.subscribers()
}

func (r *Ref[T]) equals(a, b T) bool {
	if r.equal != nil {
		return r.equal(a, b)
	}
	return sameValue(a, b)
}

// ObjectRef is a reactive cell holding a struct. The raw pointer is the
// change-detection baseline; Get exposes its reactive Proxy, so reads of
// the struct's fields are tracked too.
type ObjectRef[T any] struct {
	refBase

	raw   *T
	proxy *Proxy[T]
	mu    sync.RWMutex
}

// NewObjectRef creates an ObjectRef holding value. A nil value is allowed
// and exposes a nil proxy; a non-struct T fails with ErrNotWrappable.
func NewObjectRef[T any](value *T) (*ObjectRef[T], error) {
	if typ := reflect.TypeFor[T](); typ.Kind() != reflect.Struct {
		return nil, errors.New("E001").WithDetailf("%s is not a struct", typ).WithCaller(1)
	}
	r := &ObjectRef[T]{
		refBase: refBase{source: SourceRef, label: fmt.Sprintf("ref#%d", nextID())},
	}
	if err := r.store(value); err != nil {
		return nil, err
	}
	return r, nil
}

// store wraps value and records it as the baseline. r.mu must be held or r
// must not be shared yet.
func (r *ObjectRef[T]) store(value *T) error {
	var p *Proxy[T]
	if value != nil {
		var err error
		if p, err = Reactive(value); err != nil {
			return err
		}
	}
	r.raw, r.proxy = value, p
	return nil
}

// Get returns the proxy of the held struct and subscribes the active effect.
func (r *ObjectRef[T]) Get() *Proxy[T] {
	r.trackValue()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.proxy
}

// Raw returns the held pointer without subscribing.
func (r *ObjectRef[T]) Raw() *T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.raw
}

// Set replaces the held struct. Subscribers are triggered only when value is
// a different pointer from the one held.
func (r *ObjectRef[T]) Set(value *T) {
	r.mu.Lock()
	if r.raw == value {
		r.mu.Unlock()
		return
	}
	// Reactive cannot fail here: T was checked when the ref was created.
	_ = r.store(value)
	r.mu.Unlock()

	r.triggerValue()
}
