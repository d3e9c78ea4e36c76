// Package publisher pushes computed price sets back to the host platform
// as sensor states.
package publisher

import (
	"context"
	"strconv"

	"tariffwatch/internal/model"
)

// Publisher publishes the two priced sets produced by a cycle.
type Publisher interface {
	Publish(ctx context.Context, consumption, injection *model.PricedSet) error
	Name() string
}

// NoopPublisher is used when no publish target is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (n *NoopPublisher) Name() string { return "noop" }

func (n *NoopPublisher) Publish(_ context.Context, _, _ *model.PricedSet) error { return nil }

// stateString renders the sensor state value: the current price to 4
// decimals, or "unknown" when no interval contains the reference instant.
func stateString(set *model.PricedSet) string {
	if set.CurrentPrice == nil {
		return "unknown"
	}
	return strconv.FormatFloat(*set.CurrentPrice, 'f', 4, 64)
}

// sensorAttributes builds the attribute payload for one priced sensor.
// Keys follow the established consumer contract: the detailed "data" form
// and the simplified "raw_today"/"raw_tomorrow" form are both published,
// with per-bucket statistics. Nil statistic fields publish as null rather
// than zero.
func sensorAttributes(set *model.PricedSet, sourceEntity string) map[string]any {
	return map[string]any{
		"unit_of_measurement": "EUR/kWh",
		"device_class":        "monetary",
		"state_class":         "measurement",
		"source_entity":       sourceEntity,

		"data":         set.Data,
		"raw_today":    set.RawToday,
		"raw_tomorrow": set.RawTomorrow,
		"today":        set.Today,
		"tomorrow":     set.Tomorrow,

		"today_min":     set.TodayMin,
		"today_max":     set.TodayMax,
		"today_mean":    set.TodayMean,
		"tomorrow_min":  set.TomorrowMin,
		"tomorrow_max":  set.TomorrowMax,
		"tomorrow_mean": set.TomorrowMean,

		"tomorrow_valid": set.TomorrowValid,
	}
}
