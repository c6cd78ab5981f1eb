// Package instrument provides reactivity.Observer implementations that
// export runtime activity to Prometheus, OpenTelemetry and capitan.
//
// Install one observer, or several through Chain:
//
//	metrics := instrument.NewMetrics(instrument.WithRegistry(reg))
//	tracer := instrument.NewTracer()
//	reactivity.SetObserver(instrument.Chain(metrics, tracer, instrument.NewEvents()))
//
// Observers run synchronously on the goroutine that reads or writes
// reactive state, so each one does a bounded amount of work per callback.
package instrument
