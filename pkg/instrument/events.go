package instrument

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/vango-dev/reactivity/pkg/reactivity"
)

// Runtime signals.
var (
	// SignalTrack is emitted when an effect reads a slot.
	SignalTrack = capitan.NewSignal(
		"reactivity.track",
		"Effect read a reactive slot",
	)

	// SignalTrigger is emitted when a write notifies subscribers.
	SignalTrigger = capitan.NewSignal(
		"reactivity.trigger",
		"Reactive slot notified its subscribers",
	)

	// SignalRun is emitted after an effect run completes.
	SignalRun = capitan.NewSignal(
		"reactivity.run",
		"Effect run completed",
	)
)

// Event field keys.
var (
	// KeySource is the slot kind: property, ref, computed or dep.
	KeySource = capitan.NewStringKey("source")

	// KeyTarget is the target type name or ref label.
	KeyTarget = capitan.NewStringKey("target")

	// KeyProperty is the property name for property slots.
	KeyProperty = capitan.NewStringKey("key")

	// KeyEffect is the effect ID.
	KeyEffect = capitan.NewIntKey("effect")

	// KeyEffectName is the effect name, if set.
	KeyEffectName = capitan.NewStringKey("effect_name")

	// KeyKind is "effect" or "computed".
	KeyKind = capitan.NewStringKey("kind")

	// KeySubscribers is the number of subscribers notified.
	KeySubscribers = capitan.NewIntKey("subscribers")

	// KeyComputed is the number of computed-driving subscribers notified.
	KeyComputed = capitan.NewIntKey("computed")

	// KeyDuration is the effect run duration.
	KeyDuration = capitan.NewDurationKey("duration")
)

// Events is an Observer that emits capitan signals.
type Events struct {
	tracks bool
}

var _ reactivity.Observer = (*Events)(nil)

// EventsOption configures Events.
type EventsOption func(*Events)

// WithTrackSignals enables SignalTrack. Off by default.
func WithTrackSignals(enabled bool) EventsOption {
	return func(e *Events) {
		e.tracks = enabled
	}
}

// NewEvents creates the observer.
func NewEvents(opts ...EventsOption) *Events {
	e := &Events{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnTrack implements reactivity.Observer.
func (e *Events) OnTrack(ctx context.Context, ev reactivity.TrackEvent) {
	if !e.tracks {
		return
	}
	capitan.Emit(ctx, SignalTrack,
		KeySource.Field(ev.Source.String()),
		KeyTarget.Field(ev.Label),
		KeyProperty.Field(ev.Key),
		KeyEffect.Field(int(ev.EffectID)),
		KeyEffectName.Field(ev.EffectName),
	)
}

// OnTrigger implements reactivity.Observer.
func (e *Events) OnTrigger(ctx context.Context, ev reactivity.TriggerEvent) (context.Context, func()) {
	capitan.Emit(ctx, SignalTrigger,
		KeySource.Field(ev.Source.String()),
		KeyTarget.Field(ev.Label),
		KeyProperty.Field(ev.Key),
		KeySubscribers.Field(ev.Subscribers),
		KeyComputed.Field(ev.Computed),
	)
	return ctx, nil
}

// OnRun implements reactivity.Observer.
func (e *Events) OnRun(ctx context.Context, ev reactivity.RunEvent) (context.Context, func()) {
	start := time.Now()
	return ctx, func() {
		capitan.Emit(ctx, SignalRun,
			KeyEffect.Field(int(ev.EffectID)),
			KeyEffectName.Field(ev.Name),
			KeyKind.Field(runKind(ev)),
			KeyDuration.Field(time.Since(start)),
		)
	}
}
