package model

import "time"

// PriceInterval is a single market price with its validity window.
// Start is always strictly before End.
type PriceInterval struct {
	Start time.Time
	End   time.Time
	Price float64
}

// Contains reports whether t falls inside the half-open range [Start, End).
func (p PriceInterval) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// ParsedPriceSet holds the normalized output of one parse cycle.
// Both buckets are sorted ascending by Start. CurrentPrice, when set,
// is the raw market price of the interval containing the reference instant.
type ParsedPriceSet struct {
	Today        []PriceInterval
	Tomorrow     []PriceInterval
	CurrentPrice *float64
	// TomorrowValid is true only when the source asserted validity and at
	// least one tomorrow interval parsed successfully.
	TomorrowValid bool
	// Skipped counts source elements dropped due to missing or
	// unconvertible fields.
	Skipped int
}
