package reactivity

import (
	"context"
	"sync"
	"sync/atomic"
)

// Scheduler is invoked instead of re-running an effect when one of its
// dependencies is triggered. It receives the effect so it can queue it and
// call Run later.
type Scheduler func(e *Effect)

// Effect is a trackable computation. Running it makes it the active effect
// for the current goroutine, so every reactive read performed synchronously
// by its function subscribes it. When any of those slots is triggered, the
// effect re-runs, or its Scheduler is called if it has one.
type Effect struct {
	id   uint64
	name string

	// fn is the function to run.
	fn func()

	// scheduler replaces direct re-execution when set.
	scheduler Scheduler

	// computed is non-nil when this effect drives a Computed; such effects
	// are triggered before plain ones.
	computed computedDriver

	// allowRecurse lets the effect be re-triggered by its own writes.
	allowRecurse bool

	// deps are the subscriber sets this effect joined, for Stop.
	deps   []*Dep
	depsMu sync.Mutex

	stopped atomic.Bool
}

// computedDriver marks the owner of a computed-driving effect.
type computedDriver interface {
	isComputed()
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// WithScheduler sets the callback invoked instead of Run when the effect is
// triggered.
func WithScheduler(s Scheduler) EffectOption {
	return func(e *Effect) {
		e.scheduler = s
	}
}

// WithName names the effect in logs, observer events and Inspect output.
func WithName(name string) EffectOption {
	return func(e *Effect) {
		e.name = name
	}
}

// AllowRecurse lets an effect be re-triggered by writes it makes while it
// is running. Without it, such writes skip the running effect.
func AllowRecurse() EffectOption {
	return func(e *Effect) {
		e.allowRecurse = true
	}
}

// NewEffect creates an effect without running it. Call Run to execute it and
// collect its first dependencies.
func NewEffect(fn func(), opts ...EffectOption) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	for _, opt := range opts {
		opt(e)
	}
	stats.effectsCreated.Add(1)
	return e
}

// CreateEffect creates an effect and runs it immediately. It re-runs whenever
// any reactive state read during a run changes.
//
// Example:
//
//	count := reactivity.NewRef(0)
//	reactivity.CreateEffect(func() {
//	    fmt.Println("count is", count.Get())
//	})
//	count.Set(1) // prints "count is 1"
func CreateEffect(fn func(), opts ...EffectOption) *Effect {
	e := NewEffect(fn, opts...)
	e.Run()
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the name set with WithName.
func (e *Effect) Name() string {
	return e.name
}

// IsComputed reports whether the effect backs a Computed.
func (e *Effect) IsComputed() bool {
	return e.computed != nil
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return !e.stopped.Load()
}

// Run executes the effect's function with the effect active on the current
// goroutine. The previously active effect is restored when the function
// returns or panics, so reads made by an outer effect after a nested run
// still attribute to the outer effect.
//
// A stopped effect still runs its function, but tracks nothing.
func (e *Effect) Run() {
	if e.stopped.Load() {
		Untrack(e.fn)
		return
	}

	stats.runs.Add(1)
	if o := observer(); o != nil {
		ev := RunEvent{EffectID: e.id, Name: e.name, Computed: e.computed != nil}
		withObserved(func(ctx context.Context) (context.Context, func()) {
			return o.OnRun(ctx, ev)
		}, e.run)
		return
	}
	e.run()
}

func (e *Effect) run() {
	tc, gid := getTrackingContext()
	prev, prevPaused := tc.activeEffect, tc.paused
	tc.activeEffect, tc.paused = e, false
	defer func() {
		tc.activeEffect, tc.paused = prev, prevPaused
		releaseTrackingContext(tc, gid)
	}()
	e.fn()
}

// Stop removes the effect from every Dep it is subscribed to. A stopped
// effect is never triggered again. Stop is idempotent.
func (e *Effect) Stop() {
	if e.stopped.Swap(true) {
		return
	}
	stats.effectsStopped.Add(1)

	e.depsMu.Lock()
	deps := e.deps
	e.deps = nil
	e.depsMu.Unlock()

	for _, d := range deps {
		d.remove(e)
	}
}

// Deps returns the number of subscriber sets the effect belongs to.
func (e *Effect) Deps() int {
	e.depsMu.Lock()
	defer e.depsMu.Unlock()
	return len(e.deps)
}

// addDep records a back-link. Called by Dep.Add after a new subscription.
func (e *Effect) addDep(d *Dep) {
	e.depsMu.Lock()
	e.deps = append(e.deps, d)
	e.depsMu.Unlock()

	// Stop raced with the subscription.
	if e.stopped.Load() {
		d.remove(e)
	}
}
