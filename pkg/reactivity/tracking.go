package reactivity

import (
	"context"
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for a goroutine.
type trackingContext struct {
	// activeEffect is the Effect currently running on this goroutine.
	// Reads subscribe it; nil means reads are not tracked.
	activeEffect *Effect

	// paused suppresses tracking inside Untrack without losing activeEffect.
	paused bool

	// ctx is the parent context handed to the Observer. Set by WithContext
	// and replaced by the observer while a trigger or run is in progress.
	ctx context.Context
}

// idle reports whether the context carries no state and can be released.
func (tc *trackingContext) idle() bool {
	return tc.activeEffect == nil && !tc.paused && tc.ctx == nil
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the header of the runtime stack ("goroutine <id> ...").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it if needed.
func getTrackingContext() (*trackingContext, uint64) {
	gid := getGoroutineID()
	if tc, ok := trackingContexts.Load(gid); ok {
		return tc.(*trackingContext), gid
	}
	tc := &trackingContext{}
	trackingContexts.Store(gid, tc)
	return tc, gid
}

// peekTrackingContext returns the current goroutine's context or nil.
func peekTrackingContext() *trackingContext {
	if tc, ok := trackingContexts.Load(getGoroutineID()); ok {
		return tc.(*trackingContext)
	}
	return nil
}

// releaseTrackingContext drops an idle context so finished goroutines do not
// accumulate entries.
func releaseTrackingContext(tc *trackingContext, gid uint64) {
	if tc.idle() {
		trackingContexts.CompareAndDelete(gid, tc)
	}
}

// activeEffect returns the effect that reads on this goroutine attribute to.
func activeEffect() *Effect {
	tc := peekTrackingContext()
	if tc == nil || tc.paused {
		return nil
	}
	return tc.activeEffect
}

// currentContext returns the instrumentation context for this goroutine.
func currentContext() context.Context {
	if tc := peekTrackingContext(); tc != nil && tc.ctx != nil {
		return tc.ctx
	}
	return context.Background()
}

// Untrack runs fn with tracking suspended. Reads inside fn subscribe nothing,
// but effects started inside fn still track their own reads.
func Untrack(fn func()) {
	tc, gid := getTrackingContext()
	old := tc.paused
	tc.paused = true
	defer func() {
		tc.paused = old
		releaseTrackingContext(tc, gid)
	}()
	fn()
}

// WithContext runs fn with ctx as the parent context for Observer callbacks
// made on this goroutine. Spans opened by a tracing observer during fn become
// children of the span carried by ctx.
func WithContext(ctx context.Context, fn func()) {
	tc, gid := getTrackingContext()
	old := tc.ctx
	tc.ctx = ctx
	defer func() {
		tc.ctx = old
		releaseTrackingContext(tc, gid)
	}()
	fn()
}
