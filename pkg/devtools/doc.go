// Package devtools serves a live view of the reactive runtime over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness
//	GET  /metrics        Prometheus exposition
//	GET  /api/stats      reactivity.ReadStats as JSON
//	GET  /api/targets    reactivity.Inspect as JSON
//	GET  /api/snapshot   a fresh snapshot.Snapshot
//	POST /api/snapshot   export a snapshot to the configured sink
//	GET  /api/events     WebSocket stream of runtime signals
//
// The event stream carries the capitan signals emitted by instrument.Events.
// Call Bridge once to forward them to a Hub.
package devtools
