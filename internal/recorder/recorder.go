package recorder

import (
	"tariffwatch/internal/model"
)

// CycleSnapshot holds everything one successful refresh cycle produced.
type CycleSnapshot struct {
	SourceEntity string
	Shape        model.Shape
	Parsed       *model.ParsedPriceSet
	Consumption  *model.PricedSet
	Injection    *model.PricedSet
}

// Recorder persists cycle history for later analysis.
type Recorder interface {
	RecordCycle(snap *CycleSnapshot) error
	Close() error
}

// NoopRecorder is used when no database path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordCycle(_ *CycleSnapshot) error { return nil }
func (n *NoopRecorder) Close() error                       { return nil }
