package reactivity

import (
	"context"
	"sync/atomic"
)

// Source identifies the kind of slot a track or trigger concerns.
type Source uint8

const (
	SourceProperty Source = iota // a field of a reactive target
	SourceRef                    // a Ref or ObjectRef
	SourceComputed               // the subscriber set of a Computed
	SourceDep                    // a Dep driven directly via TrackDep/TriggerDep
)

// String returns the string representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceProperty:
		return "property"
	case SourceRef:
		return "ref"
	case SourceComputed:
		return "computed"
	case SourceDep:
		return "dep"
	default:
		return "unknown"
	}
}

// TrackEvent describes a read made while an effect was active.
type TrackEvent struct {
	Source     Source
	Label      string // target type name, or the dep label for refs
	Key        string // property name; empty for refs and computeds
	EffectID   uint64
	EffectName string
	// New is true when the read added a subscription, false when the effect
	// was already subscribed.
	New bool
}

// TriggerEvent describes a write being propagated to subscribers.
type TriggerEvent struct {
	Source      Source
	Label       string
	Key         string
	Subscribers int // effects in the dep at trigger time
	Computed    int // of which back a Computed
}

// RunEvent describes one execution of an effect's function.
type RunEvent struct {
	EffectID uint64
	Name     string
	Computed bool
}

// Observer receives instrumentation callbacks from the runtime. OnTrigger and
// OnRun return the context to use for nested callbacks and a function called
// when the trigger fan-out or the run completes.
//
// Callbacks run synchronously on the goroutine performing the operation and
// must not read or write reactive state.
type Observer interface {
	OnTrack(ctx context.Context, ev TrackEvent)
	OnTrigger(ctx context.Context, ev TriggerEvent) (context.Context, func())
	OnRun(ctx context.Context, ev RunEvent) (context.Context, func())
}

type observerBox struct{ o Observer }

var currentObserver atomic.Pointer[observerBox]

// SetObserver installs the process-wide observer. nil removes it.
func SetObserver(o Observer) {
	if o == nil {
		currentObserver.Store(nil)
		return
	}
	currentObserver.Store(&observerBox{o: o})
}

// observer returns the installed observer or nil.
func observer() Observer {
	if b := currentObserver.Load(); b != nil {
		return b.o
	}
	return nil
}

// withObserved runs fn with the context returned by start installed as the
// goroutine's instrumentation context, then calls the finish function.
func withObserved(start func(ctx context.Context) (context.Context, func()), fn func()) {
	tc, gid := getTrackingContext()
	parent := tc.ctx
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	child, done := start(ctx)
	tc.ctx = child
	defer func() {
		tc.ctx = parent
		if done != nil {
			done()
		}
		releaseTrackingContext(tc, gid)
	}()
	fn()
}
