package reactivity

import (
	"context"
	"log/slog"
)

// TrackDep subscribes the active effect, if any, to d.
func TrackDep(d *Dep) {
	trackDep(d)
}

// TriggerDep notifies every effect subscribed to d: effects that back a
// Computed first, then plain effects, each group in subscription order.
// Triggering an empty Dep is a no-op.
func TriggerDep(d *Dep) {
	triggerEffects(d)
}

// trackDep records the active effect in d.
func trackDep(d *Dep) {
	e := activeEffect()
	if e == nil || d == nil {
		return
	}
	added := d.Add(e)

	stats.tracks.Add(1)
	if l, ok := debugEnabled(); ok {
		l.Debug("track",
			slog.String("source", d.source.String()),
			slog.String("target", d.label),
			slog.String("key", d.key),
			slog.Uint64("effect", e.id),
			slog.Bool("new", added),
		)
	}
	if o := observer(); o != nil {
		o.OnTrack(currentContext(), TrackEvent{
			Source:     d.source,
			Label:      d.label,
			Key:        d.key,
			EffectID:   e.id,
			EffectName: e.name,
			New:        added,
		})
	}
}

// triggerEffects runs or reschedules the subscribers of d.
func triggerEffects(d *Dep) {
	if d == nil {
		return
	}
	effects := d.Effects()
	if len(effects) == 0 {
		return
	}

	computed := 0
	for _, e := range effects {
		if e.computed != nil {
			computed++
		}
	}

	stats.triggers.Add(1)
	if l, ok := debugEnabled(); ok {
		l.Debug("trigger",
			slog.String("source", d.source.String()),
			slog.String("target", d.label),
			slog.String("key", d.key),
			slog.Int("subscribers", len(effects)),
			slog.Int("computed", computed),
		)
	}

	fanOut := func() {
		for _, e := range effects {
			if e.computed != nil {
				triggerEffect(e)
			}
		}
		for _, e := range effects {
			if e.computed == nil {
				triggerEffect(e)
			}
		}
	}

	if o := observer(); o != nil {
		ev := TriggerEvent{
			Source:      d.source,
			Label:       d.label,
			Key:         d.key,
			Subscribers: len(effects),
			Computed:    computed,
		}
		withObserved(func(ctx context.Context) (context.Context, func()) {
			return o.OnTrigger(ctx, ev)
		}, fanOut)
		return
	}
	fanOut()
}

// triggerEffect executes a single subscriber: its scheduler if it has one,
// otherwise Run. Stopped effects and the currently running effect (unless it
// allows recursion) are skipped.
func triggerEffect(e *Effect) {
	if e.stopped.Load() {
		return
	}
	if !e.allowRecurse && e == activeEffect() {
		return
	}
	if e.scheduler != nil {
		e.scheduler(e)
		return
	}
	e.Run()
}
