package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactivity/pkg/reactivity"
)

// Default tracer name for the reactivity runtime.
const defaultTracerName = "reactivity"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "reactivity").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider

	// TrackEvents adds a span event for every tracked read. Off by default;
	// reads are far more frequent than triggers.
	TrackEvents bool
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(p trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = p
	}
}

// WithTrackEvents enables span events for tracked reads.
func WithTrackEvents(enabled bool) TracerOption {
	return func(c *TracerConfig) {
		c.TrackEvents = enabled
	}
}

// Tracer is an Observer that opens a span for every trigger fan-out and
// every effect run. Runs caused by a trigger become children of its span,
// so one write yields one trace of everything it re-ran.
type Tracer struct {
	tracer      trace.Tracer
	trackEvents bool
}

var _ reactivity.Observer = (*Tracer)(nil)

// NewTracer creates the observer.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{tracer: tracer, trackEvents: config.TrackEvents}
}

// OnTrack implements reactivity.Observer.
func (t *Tracer) OnTrack(ctx context.Context, ev reactivity.TrackEvent) {
	if !t.trackEvents {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("track", trace.WithAttributes(
		attribute.String("reactivity.source", ev.Source.String()),
		attribute.String("reactivity.target", ev.Label),
		attribute.String("reactivity.key", ev.Key),
		attribute.Int64("reactivity.effect_id", int64(ev.EffectID)),
		attribute.Bool("reactivity.new", ev.New),
	))
}

// OnTrigger implements reactivity.Observer.
func (t *Tracer) OnTrigger(ctx context.Context, ev reactivity.TriggerEvent) (context.Context, func()) {
	spanCtx, span := t.tracer.Start(ctx, "reactivity.trigger",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("reactivity.source", ev.Source.String()),
			attribute.String("reactivity.target", ev.Label),
			attribute.String("reactivity.key", ev.Key),
			attribute.Int("reactivity.subscribers", ev.Subscribers),
			attribute.Int("reactivity.computed", ev.Computed),
		),
	)
	return spanCtx, func() { span.End() }
}

// OnRun implements reactivity.Observer.
func (t *Tracer) OnRun(ctx context.Context, ev reactivity.RunEvent) (context.Context, func()) {
	attrs := []attribute.KeyValue{
		attribute.Int64("reactivity.effect_id", int64(ev.EffectID)),
		attribute.String("reactivity.kind", runKind(ev)),
	}
	if ev.Name != "" {
		attrs = append(attrs, attribute.String("reactivity.effect_name", ev.Name))
	}
	spanCtx, span := t.tracer.Start(ctx, "reactivity.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return spanCtx, func() { span.End() }
}
