package instrument

import (
	"context"

	"github.com/vango-dev/reactivity/pkg/reactivity"
)

// chain fans callbacks out to several observers.
type chain []reactivity.Observer

// Chain combines observers. Callbacks are delivered in order; the context
// returned by one observer is passed to the next, and finish functions run
// in reverse order. Nil observers are skipped.
func Chain(observers ...reactivity.Observer) reactivity.Observer {
	c := make(chain, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			c = append(c, o)
		}
	}
	return c
}

func (c chain) OnTrack(ctx context.Context, ev reactivity.TrackEvent) {
	for _, o := range c {
		o.OnTrack(ctx, ev)
	}
}

func (c chain) OnTrigger(ctx context.Context, ev reactivity.TriggerEvent) (context.Context, func()) {
	return c.nest(ctx, func(o reactivity.Observer, ctx context.Context) (context.Context, func()) {
		return o.OnTrigger(ctx, ev)
	})
}

func (c chain) OnRun(ctx context.Context, ev reactivity.RunEvent) (context.Context, func()) {
	return c.nest(ctx, func(o reactivity.Observer, ctx context.Context) (context.Context, func()) {
		return o.OnRun(ctx, ev)
	})
}

func (c chain) nest(ctx context.Context, start func(reactivity.Observer, context.Context) (context.Context, func())) (context.Context, func()) {
	dones := make([]func(), 0, len(c))
	for _, o := range c {
		var done func()
		ctx, done = start(o, ctx)
		if done != nil {
			dones = append(dones, done)
		}
	}
	return ctx, func() {
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i]()
		}
	}
}
