package parser

import (
	"errors"
	"fmt"
)

// ErrNoTodayPrices means a cycle parsed successfully but produced no
// intervals for today. The caller should not publish and should retry on
// the next trigger.
var ErrNoTodayPrices = errors.New("no price data available for today")

// ClassificationError means the source attributes match no known format.
// Details carries the analyzer's diagnostics.
type ClassificationError struct {
	Reason  string
	Details map[string]any
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("unrecognized source format: %s", e.Reason)
}
