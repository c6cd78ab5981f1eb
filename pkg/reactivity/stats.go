package reactivity

import (
	"slices"
	"strings"
	"sync/atomic"
)

// counters are process-wide totals reported by Stats.
type counters struct {
	effectsCreated atomic.Uint64
	effectsStopped atomic.Uint64
	runs           atomic.Uint64
	tracks         atomic.Uint64
	triggers       atomic.Uint64
}

var stats counters

// Stats is a point-in-time summary of the runtime.
type Stats struct {
	// Targets is the number of live entries in the target registry.
	Targets int `json:"targets"`
	// Properties is the number of (target, key) pairs with a Dep.
	Properties int `json:"properties"`
	// Subscriptions is the sum of subscriber counts over those Deps.
	Subscriptions int `json:"subscriptions"`

	EffectsCreated uint64 `json:"effectsCreated"`
	EffectsStopped uint64 `json:"effectsStopped"`
	Runs           uint64 `json:"runs"`
	Tracks         uint64 `json:"tracks"`
	Triggers       uint64 `json:"triggers"`
}

// PropertyInfo describes the subscribers of one property.
type PropertyInfo struct {
	Key     string   `json:"key"`
	Effects []uint64 `json:"effects"`
}

// TargetInfo describes one registry entry.
type TargetInfo struct {
	Type       string         `json:"type"`
	Wrapped    bool           `json:"wrapped"`
	Properties []PropertyInfo `json:"properties"`
}

// ReadStats returns the current runtime statistics.
func ReadStats() Stats {
	s := Stats{
		EffectsCreated: stats.effectsCreated.Load(),
		EffectsStopped: stats.effectsStopped.Load(),
		Runs:           stats.runs.Load(),
		Tracks:         stats.tracks.Load(),
		Triggers:       stats.triggers.Load(),
	}

	targets.mu.Lock()
	deps := make([]*Dep, 0, len(targets.entries))
	s.Targets = len(targets.entries)
	for _, e := range targets.entries {
		for _, d := range e.deps {
			deps = append(deps, d)
		}
	}
	targets.mu.Unlock()

	s.Properties = len(deps)
	for _, d := range deps {
		s.Subscriptions += d.Len()
	}
	return s
}

// Inspect lists the registry contents, sorted by type then key. Effects are
// identified by ID in subscription order.
func Inspect() []TargetInfo {
	type pending struct {
		info TargetInfo
		deps []*Dep
	}

	targets.mu.Lock()
	list := make([]pending, 0, len(targets.entries))
	for _, e := range targets.entries {
		p := pending{info: TargetInfo{Type: e.typeName, Wrapped: e.wrapped()}}
		for _, d := range e.deps {
			p.deps = append(p.deps, d)
		}
		list = append(list, p)
	}
	targets.mu.Unlock()

	out := make([]TargetInfo, 0, len(list))
	for _, p := range list {
		for _, d := range p.deps {
			ids := make([]uint64, 0, d.Len())
			d.Each(func(e *Effect) { ids = append(ids, e.id) })
			p.info.Properties = append(p.info.Properties, PropertyInfo{Key: d.key, Effects: ids})
		}
		slices.SortFunc(p.info.Properties, func(a, b PropertyInfo) int {
			return strings.Compare(a.Key, b.Key)
		})
		out = append(out, p.info)
	}
	slices.SortStableFunc(out, func(a, b TargetInfo) int {
		return strings.Compare(a.Type, b.Type)
	})
	return out
}
