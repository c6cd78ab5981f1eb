package reactivity

import (
	"reflect"
	"sync"
	"weak"

	"github.com/vango-dev/reactivity/internal/errors"
)

// Proxy is the reactive wrapper of a struct. Reads through Get subscribe the
// active effect to the field read; writes through Set update the field and
// trigger its subscribers.
//
// Wrapping is idempotent: Reactive returns the same *Proxy for the same
// target for as long as that proxy is reachable.
type Proxy[T any] struct {
	target *T
	entry  *targetEntry
	value  reflect.Value

	// mu serializes field access on the target.
	mu sync.RWMutex
}

// Reactive returns the reactive wrapper of target. target must be a non-nil
// pointer to a struct with at least one field; anything else fails with
// ErrNotWrappable. Package-level variables are valid targets.
func Reactive[T any](target *T) (*Proxy[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, errors.New("E001").
			WithDetailf("%s is not a struct", typ).
			WithSuggestion("Use NewRef for single values").
			WithCaller(1)
	}
	if typ.Size() == 0 {
		return nil, errors.New("E001").
			WithDetailf("%s has no fields to track", typ).
			WithSuggestion("Add the state as fields, or use NewRef").
			WithCaller(1)
	}
	if target == nil {
		return nil, errors.New("E001").
			WithDetailf("target is a nil *%s", typ).
			WithSuggestion("Pass a pointer to an allocated struct").
			WithCaller(1)
	}

	targets.mu.Lock()
	defer targets.mu.Unlock()

	e := entryLocked(targets, target, true)
	if wp, ok := e.proxy.(weak.Pointer[Proxy[T]]); ok {
		if p := wp.Value(); p != nil {
			return p, nil
		}
	}

	p := &Proxy[T]{
		target: target,
		entry:  e,
		value:  reflect.ValueOf(target).Elem(),
	}
	wp := weak.Make(p)
	e.proxy = wp
	e.proxyLive = func() bool { return wp.Value() != nil }
	return p, nil
}

// MustReactive is like Reactive but panics on error.
func MustReactive[T any](target *T) *Proxy[T] {
	p, err := Reactive(target)
	if err != nil {
		panic(err)
	}
	return p
}

// Get reads the named field and subscribes the active effect to it. Unknown
// and unexported fields read as nil, and are still tracked.
func (p *Proxy[T]) Get(key string) any {
	var res any
	p.mu.RLock()
	if f, ok := p.field(key); ok && f.CanInterface() {
		res = f.Interface()
	}
	p.mu.RUnlock()

	targets.trackEntry(p.entry, key)
	return res
}

// Set writes the named field and triggers its subscribers. The trigger fires
// on every successful write, including writes of the value already held.
func (p *Proxy[T]) Set(key string, value any) error {
	p.mu.Lock()
	f, ok := p.field(key)
	if !ok {
		p.mu.Unlock()
		return errors.New("E002").WithDetailf("%s has no field %q", p.entry.typeName, key)
	}
	if !f.CanSet() {
		p.mu.Unlock()
		return errors.New("E004").WithDetailf("%s.%s is unexported", p.entry.typeName, key)
	}
	v, ok := assignable(value, f.Type())
	if !ok {
		p.mu.Unlock()
		return errors.New("E003").WithDetailf("cannot assign %T to %s.%s (%s)", value, p.entry.typeName, key, f.Type())
	}
	f.Set(v)
	p.mu.Unlock()

	targets.triggerEntry(p.entry, key)
	return nil
}

// Raw returns the wrapped target. Access through it is not tracked.
func (p *Proxy[T]) Raw() *T {
	return p.target
}

func (p *Proxy[T]) isReactive() {}

// field resolves key to a field of the target, including promoted fields.
// Fields promoted through a nil embedded pointer do not resolve.
func (p *Proxy[T]) field(key string) (reflect.Value, bool) {
	sf, ok := p.value.Type().FieldByName(key)
	if !ok {
		return reflect.Value{}, false
	}
	f, err := p.value.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	return f, true
}

// Field reads key through p and returns it as V, or the zero V when the field
// holds another type.
func Field[V any, T any](p *Proxy[T], key string) V {
	v, _ := p.Get(key).(V)
	return v
}

// IsReactive reports whether v is a *Proxy.
func IsReactive(v any) bool {
	_, ok := v.(interface{ isReactive() })
	return ok
}

// assignable converts value for storage in a field of type t.
func assignable(value any, t reflect.Type) (reflect.Value, bool) {
	if value == nil {
		if nilable(t) {
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return v, true
}

// nilable reports whether nil is a valid value of t.
func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}
