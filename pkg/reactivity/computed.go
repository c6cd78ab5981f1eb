package reactivity

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Computed is a derived reactive value. It owns an Effect that runs its
// getter, and a Dep of its own that effects reading Get subscribe to.
//
// By default every Get re-runs the getter, so reads are only as cheap and
// side-effect free as the getter itself. The Cached option adds a dirty flag:
// the getter then re-runs only after one of its dependencies changed.
//
// When a dependency of the getter is triggered, the computed's subscribers
// are notified before any plain effect subscribed to that same dependency.
type Computed[T any] struct {
	refBase

	getter func() T
	effect *Effect

	value T
	mu    sync.RWMutex

	cached bool
	dirty  atomic.Bool
}

// ComputedOption configures a Computed.
type ComputedOption func(*computedConfig)

type computedConfig struct {
	cached bool
	name   string
}

// Cached makes the computed re-run its getter only when a dependency has
// changed since the last evaluation.
func Cached() ComputedOption {
	return func(c *computedConfig) {
		c.cached = true
	}
}

// ComputedName names the computed's effect.
func ComputedName(name string) ComputedOption {
	return func(c *computedConfig) {
		c.name = name
	}
}

// NewComputed creates a derived value from getter. The getter does not run
// until the first Get.
//
// Example:
//
//	state := reactivity.MustReactive(&struct{ A int }{A: 1})
//	double := reactivity.NewComputed(func() int {
//	    return reactivity.Field[int](state, "A") * 2
//	})
func NewComputed[T any](getter func() T, opts ...ComputedOption) *Computed[T] {
	var cfg computedConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	id := nextID()
	c := &Computed[T]{
		refBase: refBase{source: SourceComputed, label: fmt.Sprintf("computed#%d", id)},
		getter:  getter,
		cached:  cfg.cached,
	}
	if cfg.name != "" {
		c.label = cfg.name
	}
	c.dirty.Store(true)
	c.effect = NewEffect(c.evaluate, WithScheduler(c.schedule), WithName(c.label))
	c.effect.computed = c
	return c
}

func (c *Computed[T]) isComputed() {}

// evaluate runs the getter under the computed's effect and caches the result.
func (c *Computed[T]) evaluate() {
	v := c.getter()
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

// schedule is the effect's scheduler: a dependency changed, so the cached
// value is stale and every reader must be notified.
func (c *Computed[T]) schedule(*Effect) {
	c.dirty.Store(true)
	c.triggerValue()
}

// Get subscribes the active effect to the computed, evaluates the getter and
// returns its result.
func (c *Computed[T]) Get() T {
	c.trackValue()
	if !c.cached || !c.effect.Active() || c.dirty.Swap(false) {
		c.effect.Run()
	}
	return c.Peek()
}

// Peek returns the last evaluated value without subscribing or evaluating.
func (c *Computed[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Effect returns the effect that drives the computed.
func (c *Computed[T]) Effect() *Effect {
	return c.effect
}

// Subscribers returns the number of effects subscribed to the computed.
func (c *Computed[T]) Subscribers() int {
	return c.subscribers()
}

// Stop stops the computed's effect. Get keeps evaluating the getter but
// the computed no longer reacts to its dependencies.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
	c.dirty.Store(true)
}
