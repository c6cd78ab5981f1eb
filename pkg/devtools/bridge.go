package devtools

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/vango-dev/reactivity/pkg/instrument"
)

// Bridge hooks hub to the runtime signals emitted by instrument.Events.
// Hooks cannot be removed, so call it once per hub.
func Bridge(hub *Hub) {
	capitan.Hook(instrument.SignalTrigger, func(_ context.Context, e *capitan.Event) {
		subscribers, _ := instrument.KeySubscribers.From(e)
		computed, _ := instrument.KeyComputed.From(e)
		hub.Broadcast(Message{
			Signal: "reactivity.trigger",
			Time:   time.Now(),
			Fields: slotFields(e, map[string]any{
				"subscribers": subscribers,
				"computed":    computed,
			}),
		})
	})

	capitan.Hook(instrument.SignalRun, func(_ context.Context, e *capitan.Event) {
		id, _ := instrument.KeyEffect.From(e)
		name, _ := instrument.KeyEffectName.From(e)
		kind, _ := instrument.KeyKind.From(e)
		d, _ := instrument.KeyDuration.From(e)
		hub.Broadcast(Message{
			Signal: "reactivity.run",
			Time:   time.Now(),
			Fields: map[string]any{
				"effect":      id,
				"effect_name": name,
				"kind":        kind,
				"duration_us": d.Microseconds(),
			},
		})
	})

	capitan.Hook(instrument.SignalTrack, func(_ context.Context, e *capitan.Event) {
		id, _ := instrument.KeyEffect.From(e)
		name, _ := instrument.KeyEffectName.From(e)
		hub.Broadcast(Message{
			Signal: "reactivity.track",
			Time:   time.Now(),
			Fields: slotFields(e, map[string]any{
				"effect":      id,
				"effect_name": name,
			}),
		})
	})
}

func slotFields(e *capitan.Event, fields map[string]any) map[string]any {
	source, _ := instrument.KeySource.From(e)
	target, _ := instrument.KeyTarget.From(e)
	key, _ := instrument.KeyProperty.From(e)
	fields["source"] = source
	fields["target"] = target
	if key != "" {
		fields["key"] = key
	}
	return fields
}
