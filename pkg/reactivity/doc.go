// Package reactivity is a fine-grained dependency-tracking runtime.
//
// Computations register themselves as subscribers of the state they read and
// are re-run when that state is later written, without declaring their
// dependencies up front. Reading a reactive property or ref while an Effect
// is running subscribes that Effect; writing it notifies every subscriber.
//
// # Core Types
//
// Proxy[T] wraps a struct pointer and intercepts property access by field
// name:
//
//	state, _ := reactivity.Reactive(&Counter{N: 1})
//	n := state.Get("N")          // read: subscribes the active effect
//	_ = state.Set("N", 2)        // write: notifies subscribers, always
//
// Ref[T] is a single reactive cell with change detection:
//
//	r := reactivity.NewRef(1)
//	r.Set(2) // notifies
//	r.Set(2) // same value: no-op
//
// Computed[T] is a derived value backed by its own Effect:
//
//	doubled := reactivity.NewComputed(func() int { return r.Get() * 2 })
//
// Effect runs a function now and again whenever anything it read changes:
//
//	reactivity.CreateEffect(func() {
//	    fmt.Println("doubled is", doubled.Get())
//	})
//
// # Trigger Ordering
//
// When a slot is written, every Effect that backs a Computed runs (or is
// rescheduled) first, in subscription order, then every plain Effect, in
// subscription order. A plain Effect that reads a Computed therefore always
// observes the value derived from the current write.
//
// # Lifetime
//
// The target→key→subscriber registry holds its targets weakly. Entries are
// dropped once a target becomes unreachable, and Effect.Stop removes an
// effect from every subscriber set it joined. Subscriptions are never
// removed between runs: an Effect that stops reading a property stays
// subscribed to it until stopped.
//
// # Goroutines
//
// The active effect is tracked per goroutine and restored after every run.
// The registry and subscriber sets are safe for concurrent use; effects are
// always invoked outside internal locks. Field writes through a Proxy are
// serialized per proxy.
package reactivity
