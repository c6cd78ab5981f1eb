package instrument

import (
	"context"
	"testing"

	"github.com/vango-dev/reactivity/pkg/reactivity"
)

type orderKey struct{}

type orderObserver struct {
	name string
	log  *[]string
}

func (o orderObserver) OnTrack(ctx context.Context, _ reactivity.TrackEvent) {
	*o.log = append(*o.log, "track:"+o.name)
}

func (o orderObserver) OnTrigger(ctx context.Context, _ reactivity.TriggerEvent) (context.Context, func()) {
	return o.enter(ctx)
}

func (o orderObserver) OnRun(ctx context.Context, _ reactivity.RunEvent) (context.Context, func()) {
	return o.enter(ctx)
}

func (o orderObserver) enter(ctx context.Context) (context.Context, func()) {
	prev, _ := ctx.Value(orderKey{}).(string)
	*o.log = append(*o.log, "start:"+o.name+"<"+prev)
	return context.WithValue(ctx, orderKey{}, o.name), func() {
		*o.log = append(*o.log, "end:"+o.name)
	}
}

func TestChainOrder(t *testing.T) {
	var log []string
	c := Chain(orderObserver{"a", &log}, nil, orderObserver{"b", &log})

	ctx, done := c.OnRun(context.Background(), reactivity.RunEvent{})
	c.OnTrack(ctx, reactivity.TrackEvent{})
	done()

	want := []string{"start:a<", "start:b<a", "track:a", "track:b", "end:b", "end:a"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("expected %v, got %v", want, log)
			break
		}
	}
	if v, _ := ctx.Value(orderKey{}).(string); v != "b" {
		t.Errorf("expected the last observer's context, got %q", v)
	}
}

func TestChainEmpty(t *testing.T) {
	c := Chain()
	ctx, done := c.OnTrigger(context.Background(), reactivity.TriggerEvent{})
	if ctx == nil || done == nil {
		t.Fatal("expected a context and finish func")
	}
	done()
}
