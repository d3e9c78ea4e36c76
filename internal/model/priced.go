package model

// PricedInterval is one tariff-adjusted interval in the detailed
// publication format.
type PricedInterval struct {
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	PricePerKWh float64 `json:"price_per_kwh"`
}

// HourPrice is one tariff-adjusted interval in the simplified
// publication format.
type HourPrice struct {
	Hour  string  `json:"hour"`
	Price float64 `json:"price"`
}

// PricedSet is a fully tariff-adjusted price set for one direction
// (consumption or injection). Prices are rounded to 4 decimals at
// computation time and never re-rounded. Statistic fields are nil when
// the corresponding bucket is empty.
type PricedSet struct {
	CurrentPrice *float64

	// Data covers today plus tomorrow in the detailed format.
	Data []PricedInterval

	// Simplified per-day formats.
	RawToday    []HourPrice
	RawTomorrow []HourPrice
	Today       []float64
	Tomorrow    []float64

	TodayMin     *float64
	TodayMax     *float64
	TodayMean    *float64
	TomorrowMin  *float64
	TomorrowMax  *float64
	TomorrowMean *float64

	TomorrowValid bool
}
