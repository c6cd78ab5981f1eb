package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/reactivity"
)

var (
	// ErrExport is returned when a snapshot cannot be encoded or stored.
	ErrExport = errors.New("E140")

	// ErrNoSink is returned by Export when no sink is given.
	ErrNoSink = errors.New("E141")
)

// Snapshot is a point-in-time view of the runtime.
type Snapshot struct {
	TakenAt time.Time               `json:"takenAt"`
	Stats   reactivity.Stats        `json:"stats"`
	Targets []reactivity.TargetInfo `json:"targets"`
}

// Take captures the current runtime state.
func Take() *Snapshot {
	return &Snapshot{
		TakenAt: time.Now().UTC(),
		Stats:   reactivity.ReadStats(),
		Targets: reactivity.Inspect(),
	}
}

// Name returns the object name used when exporting s.
func (s *Snapshot) Name() string {
	return "snapshot-" + s.TakenAt.UTC().Format("20060102T150405.000Z") + ".json"
}

// Encode writes s as indented JSON.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Sink stores encoded snapshots.
type Sink interface {
	// Put stores data under name and returns its location.
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// Export encodes snap and stores it in sink, returning the location.
func Export(ctx context.Context, sink Sink, snap *Snapshot) (string, error) {
	if sink == nil {
		return "", errors.New("E141")
	}
	var buf bytes.Buffer
	if err := snap.Encode(&buf); err != nil {
		return "", errors.New("E140").Wrap(err)
	}
	loc, err := sink.Put(ctx, snap.Name(), buf.Bytes())
	if err != nil {
		return "", errors.New("E140").
			WithDetailf("writing %s", snap.Name()).
			Wrap(err)
	}
	return loc, nil
}
