package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tariffwatch/internal/model"
)

func TestConsumptionPrice_Defaults(t *testing.T) {
	params := DefaultCostParameters()

	// (0.10*1.02 + 0.1272) * 1.06 = 0.242952
	assert.InDelta(t, 0.2430, ConsumptionPrice(0.10, params), 1e-12)
	// Fixed costs and VAT apply even at a zero market price.
	assert.InDelta(t, 0.1348, ConsumptionPrice(0, params), 1e-12)
}

func TestInjectionPrice_Defaults(t *testing.T) {
	params := DefaultCostParameters()

	assert.InDelta(t, 0.0830, InjectionPrice(0.10, params), 1e-12)
	// The deduction can push the injection price negative.
	assert.InDelta(t, -0.0150, InjectionPrice(0, params), 1e-12)
}

func TestPrices_MonotonicInMarketPrice(t *testing.T) {
	params := DefaultCostParameters()
	prev := ConsumptionPrice(-0.05, params)
	prevInj := InjectionPrice(-0.05, params)
	for _, p := range []float64{0, 0.05, 0.1, 0.5, 1} {
		c, i := ConsumptionPrice(p, params), InjectionPrice(p, params)
		assert.GreaterOrEqual(t, c, prev)
		assert.GreaterOrEqual(t, i, prevInj)
		prev, prevInj = c, i
	}
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 0.2430, Round4(0.242952))
	assert.Equal(t, 0.1234, Round4(0.12344))
	assert.Equal(t, 0.1235, Round4(0.12345000001))
	assert.Equal(t, -0.015, Round4(-0.015))
	assert.Equal(t, 0.0, Round4(0.00004))
}

func interval(start time.Time, width time.Duration, price float64) model.PriceInterval {
	return model.PriceInterval{Start: start, End: start.Add(width), Price: price}
}

func TestApply_BuildsBothSets(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, cet)
	current := 0.10
	parsed := &model.ParsedPriceSet{
		Today: []model.PriceInterval{
			interval(base, time.Hour, 0.10),
			interval(base.Add(time.Hour), time.Hour, 0.20),
		},
		Tomorrow: []model.PriceInterval{
			interval(base.Add(24*time.Hour), time.Hour, 0.30),
		},
		CurrentPrice:  &current,
		TomorrowValid: true,
	}
	params := DefaultCostParameters()

	consumption, injection := Apply(parsed, params)

	require.NotNil(t, consumption.CurrentPrice)
	assert.InDelta(t, 0.2430, *consumption.CurrentPrice, 1e-12)
	require.NotNil(t, injection.CurrentPrice)
	assert.InDelta(t, 0.0830, *injection.CurrentPrice, 1e-12)

	// Detailed list covers both days, in order.
	require.Len(t, consumption.Data, 3)
	assert.Equal(t, "2025-01-01T00:00:00+01:00", consumption.Data[0].StartTime)
	assert.Equal(t, "2025-01-01T01:00:00+01:00", consumption.Data[0].EndTime)
	assert.InDelta(t, 0.2430, consumption.Data[0].PricePerKWh, 1e-12)
	assert.Equal(t, "2025-01-02T00:00:00+01:00", consumption.Data[2].StartTime)

	// Simplified lists stay per-day.
	require.Len(t, consumption.RawToday, 2)
	require.Len(t, consumption.RawTomorrow, 1)
	assert.Equal(t, "2025-01-01T01:00:00+01:00", consumption.RawToday[1].Hour)
	assert.InDelta(t, consumption.Data[2].PricePerKWh, consumption.RawTomorrow[0].Price, 1e-12)

	require.Len(t, consumption.Today, 2)
	require.Len(t, consumption.Tomorrow, 1)
	assert.True(t, consumption.TomorrowValid)
	assert.True(t, injection.TomorrowValid)

	// Stats over the rounded today prices.
	require.NotNil(t, consumption.TodayMin)
	assert.InDelta(t, 0.2430, *consumption.TodayMin, 1e-12)
	require.NotNil(t, consumption.TodayMax)
	assert.InDelta(t, 0.3511, *consumption.TodayMax, 1e-12)
	require.NotNil(t, consumption.TodayMean)
	assert.InDelta(t, Round4((0.2430+0.3511)/2), *consumption.TodayMean, 1e-12)
}

func TestApply_EmptyBuckets(t *testing.T) {
	parsed := &model.ParsedPriceSet{}
	consumption, injection := Apply(parsed, DefaultCostParameters())

	for _, set := range []*model.PricedSet{consumption, injection} {
		assert.Nil(t, set.CurrentPrice)
		assert.Empty(t, set.Data)
		assert.Empty(t, set.Today)
		assert.Empty(t, set.Tomorrow)
		assert.Nil(t, set.TodayMin)
		assert.Nil(t, set.TodayMax)
		assert.Nil(t, set.TodayMean)
		assert.Nil(t, set.TomorrowMin)
		assert.Nil(t, set.TomorrowMax)
		assert.Nil(t, set.TomorrowMean)
		assert.False(t, set.TomorrowValid)
	}
}

func TestApply_TodayOnly(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, cet)
	parsed := &model.ParsedPriceSet{
		Today: []model.PriceInterval{interval(base, time.Hour, 0.05)},
	}

	consumption, _ := Apply(parsed, DefaultCostParameters())

	assert.Len(t, consumption.RawToday, 1)
	assert.Empty(t, consumption.RawTomorrow)
	assert.NotNil(t, consumption.TodayMean)
	assert.Nil(t, consumption.TomorrowMean)
	// Single interval: min, max, and mean coincide.
	assert.Equal(t, *consumption.TodayMin, *consumption.TodayMax)
	assert.Equal(t, *consumption.TodayMin, *consumption.TodayMean)
}
