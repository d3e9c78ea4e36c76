// Package parser turns loosely-structured source sensor attributes into
// normalized, time-bucketed price intervals. Detection of the source
// format lives in the analyzer; one parse routine exists per known shape.
package parser

import (
	"sort"
	"time"

	"tariffwatch/internal/model"
)

type parseFunc func(attrs map[string]any, now time.Time) *model.ParsedPriceSet

// parsers is the closed shape dispatch table. The shape set is small and
// fixed; new formats require a code change here and in Classify.
var parsers = map[model.Shape]parseFunc{
	model.ShapeEpex:   parseEpex,
	model.ShapeHourly: parseHourly,
}

// Parse extracts a normalized price set from attrs according to the
// already-classified shape. A single malformed element never aborts the
// cycle; it is skipped and counted. The returned buckets are sorted
// ascending by start time.
func Parse(shape model.Shape, attrs map[string]any, now time.Time) (*model.ParsedPriceSet, error) {
	fn, ok := parsers[shape]
	if !ok {
		cls := Classify(attrs)
		return nil, &ClassificationError{Reason: cls.Reason, Details: cls.Details}
	}
	set := fn(attrs, now)
	sortIntervals(set.Today)
	sortIntervals(set.Tomorrow)
	return set, nil
}

func sortIntervals(intervals []model.PriceInterval) {
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})
}

// sameDate reports whether t falls on the given calendar date, compared in
// that date's location. Sources report offsets that may differ from the
// host timezone; bucketing follows the reference instant's calendar.
func sameDate(t, date time.Time) bool {
	t = t.In(date.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
