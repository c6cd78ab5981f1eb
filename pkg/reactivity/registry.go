package reactivity

import (
	"reflect"
	"runtime"
	"sync"
	"unsafe"
	"weak"
)

// targetEntry is the registry record for one reactive target: its
// per-property deps and its cached proxy.
type targetEntry struct {
	key      regKey
	typeName string

	// deps maps a property key to its Dep. Guarded by registry.mu.
	deps map[string]*Dep

	// self holds a weak.Pointer[T] for heap targets and is nil for static
	// ones, which are never collected.
	self any

	// proxy holds a weak.Pointer[Proxy[T]] once the target has been wrapped;
	// proxyLive reports whether that proxy is still reachable.
	proxy     any
	proxyLive func() bool
}

func (e *targetEntry) wrapped() bool {
	return e.proxyLive != nil && e.proxyLive()
}

// regKey identifies a target by address and type. The type tells a struct
// apart from its first field, which shares the address.
type regKey struct {
	addr uintptr
	typ  reflect.Type
}

// registry is the target→key→Dep table. It holds targets only weakly: heap
// targets get a cleanup that drops their entry once collected, and an entry
// whose weak pointer has gone stale is replaced when its address is reused.
// Package-level targets are not heap allocated and stay registered.
type registry struct {
	mu      sync.Mutex
	entries map[regKey]*targetEntry
}

var targets = &registry{entries: make(map[regKey]*targetEntry)}

// entryLocked returns the entry for target, creating it when create is set.
// r.mu must be held.
func entryLocked[T any](r *registry, target *T, create bool) *targetEntry {
	typ := reflect.TypeFor[T]()
	k := regKey{addr: uintptr(unsafe.Pointer(target)), typ: typ}
	if e, ok := r.entries[k]; ok {
		if e.self == nil {
			return e
		}
		if wp, ok := e.self.(weak.Pointer[T]); ok && wp.Value() == target {
			return e
		}
		// The previous owner of this address was collected before its
		// cleanup ran.
		delete(r.entries, k)
	}
	if !create {
		return nil
	}
	e := &targetEntry{
		key:      k,
		typeName: typ.String(),
		deps:     make(map[string]*Dep),
	}
	// AddCleanup hands back a zero Cleanup for pointers outside the heap,
	// where weak.Make would abort the process.
	if c := runtime.AddCleanup(target, r.prune, e); c != (runtime.Cleanup{}) {
		e.self = weak.Make(target)
	}
	r.entries[k] = e
	return e
}

// prune removes the entry of a collected target unless its address has
// already been taken over by a newer one.
func (r *registry) prune(e *targetEntry) {
	r.mu.Lock()
	if r.entries[e.key] == e {
		delete(r.entries, e.key)
	}
	r.mu.Unlock()
}

// depLocked returns the Dep for key, creating it when create is set.
// r.mu must be held.
func (r *registry) depLocked(e *targetEntry, key string, create bool) *Dep {
	if d, ok := e.deps[key]; ok {
		return d
	}
	if !create {
		return nil
	}
	d := newDep(SourceProperty, e.typeName, key)
	d.onEmpty = func(d *Dep) { r.dropDep(e, key, d) }
	e.deps[key] = d
	return d
}

// dropDep forgets an emptied Dep so stopped effects leave nothing behind.
func (r *registry) dropDep(e *targetEntry, key string, d *Dep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.deps[key] == d && d.Len() == 0 {
		delete(e.deps, key)
	}
}

// trackEntry subscribes the active effect to (entry, key).
func (r *registry) trackEntry(e *targetEntry, key string) {
	if activeEffect() == nil {
		return
	}
	r.mu.Lock()
	d := r.depLocked(e, key, true)
	r.mu.Unlock()
	trackDep(d)
}

// triggerEntry notifies the subscribers of (entry, key), if any.
func (r *registry) triggerEntry(e *targetEntry, key string) {
	r.mu.Lock()
	d := r.depLocked(e, key, false)
	r.mu.Unlock()
	triggerEffects(d)
}

// Track records that the active effect reads key of target. It is a no-op
// when no effect is active and for zero-size types, whose values all share
// one address.
func Track[T any](target *T, key string) {
	if target == nil || zeroSize[T]() || activeEffect() == nil {
		return
	}
	targets.mu.Lock()
	e := entryLocked(targets, target, true)
	targets.mu.Unlock()
	targets.trackEntry(e, key)
}

// Trigger notifies every effect that read key of target. It is a no-op for
// unknown targets and keys.
func Trigger[T any](target *T, key string) {
	if target == nil || zeroSize[T]() {
		return
	}
	targets.mu.Lock()
	e := entryLocked(targets, target, false)
	targets.mu.Unlock()
	if e == nil {
		return
	}
	targets.triggerEntry(e, key)
}

// DepOf returns the Dep recorded for (target, key), or nil.
func DepOf[T any](target *T, key string) *Dep {
	if target == nil || zeroSize[T]() {
		return nil
	}
	targets.mu.Lock()
	defer targets.mu.Unlock()
	e := entryLocked(targets, target, false)
	if e == nil {
		return nil
	}
	return targets.depLocked(e, key, false)
}

func zeroSize[T any]() bool {
	return reflect.TypeFor[T]().Size() == 0
}
