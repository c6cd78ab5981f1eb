// Package snapshot captures the reactive dependency graph and exports it.
//
// A Snapshot is a point-in-time copy of reactivity.ReadStats and
// reactivity.Inspect, encoded as JSON. Sinks write encoded snapshots to a
// directory or an S3 bucket:
//
//	snap := snapshot.Take()
//	loc, err := snapshot.Export(ctx, snapshot.NewFileSink("snapshots"), snap)
package snapshot
