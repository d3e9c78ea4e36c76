// Package source fetches point-in-time snapshots of the upstream price
// sensor's state and attributes.
package source

import (
	"context"
	"errors"
)

// ErrUnavailable means the source sensor itself could not be obtained.
var ErrUnavailable = errors.New("source sensor unavailable")

// ErrNoAttributes means the sensor exists but carries no attributes.
// Surfaced identically to ErrUnavailable by callers.
var ErrNoAttributes = errors.New("source sensor has no attributes")

// Snapshot is one observation of the upstream sensor.
type Snapshot struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Source provides sensor snapshots.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
	Name() string
}

// StaticSource returns a fixed snapshot or error. Used in tests and for
// one-shot runs against captured data.
type StaticSource struct {
	Snapshot *Snapshot
	Err      error
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Fetch(_ context.Context) (*Snapshot, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Snapshot == nil || len(s.Snapshot.Attributes) == 0 {
		return nil, ErrNoAttributes
	}
	return s.Snapshot, nil
}
