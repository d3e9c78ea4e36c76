package model

// Shape identifies a known source sensor format.
type Shape string

const (
	// ShapeEpex is a "data" array of explicit start/end/price entries
	// (EPEX Spot style).
	ShapeEpex Shape = "epex"
	// ShapeHourly is a "raw_today"/"raw_tomorrow" array of hour/price
	// entries without explicit end times (Energi Data Service style).
	ShapeHourly Shape = "hourly"
	// ShapeUnknown means no known format matched.
	ShapeUnknown Shape = "unknown"
)

// Classification is the result of inspecting a source attribute snapshot.
type Classification struct {
	Shape  Shape
	Reason string
	// Details carries diagnostic context for failed classification:
	// the top-level keys present and, for candidate arrays that exist,
	// their element type and first-element keys.
	Details map[string]any
}
