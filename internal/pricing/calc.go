package pricing

import (
	"math"
	"time"

	"tariffwatch/internal/model"
)

// priceFunc transforms one raw market price into a tariff price.
type priceFunc func(marketPrice float64, params CostParameters) float64

// ConsumptionPrice applies the consumption tariff:
//
//	round((price * consumption_multiplier + fixed costs) * (1 + vat/100), 4)
//
// VAT is applied multiplicatively on top of price plus costs.
func ConsumptionPrice(marketPrice float64, params CostParameters) float64 {
	base := marketPrice*params.ConsumptionMultiplier + params.fixedCosts()
	return Round4(base * (1 + params.VATRate/100))
}

// InjectionPrice applies the injection tariff:
//
//	round(price * injection_multiplier - injection_deduction, 4)
func InjectionPrice(marketPrice float64, params CostParameters) float64 {
	return Round4(marketPrice*params.InjectionMultiplier - params.InjectionDeduction)
}

// Round4 rounds to 4 decimal places. Rounding happens exactly once, at the
// point a tariff price is computed; statistics reuse the rounded values.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Apply computes the consumption and injection price sets for every
// interval in parsed, independently.
func Apply(parsed *model.ParsedPriceSet, params CostParameters) (consumption, injection *model.PricedSet) {
	return buildSet(parsed, params, ConsumptionPrice), buildSet(parsed, params, InjectionPrice)
}

func buildSet(parsed *model.ParsedPriceSet, params CostParameters, fn priceFunc) *model.PricedSet {
	set := &model.PricedSet{TomorrowValid: parsed.TomorrowValid}

	if parsed.CurrentPrice != nil {
		p := fn(*parsed.CurrentPrice, params)
		set.CurrentPrice = &p
	}

	set.Today = appendBucket(set, &set.RawToday, parsed.Today, params, fn)
	set.Tomorrow = appendBucket(set, &set.RawTomorrow, parsed.Tomorrow, params, fn)

	set.TodayMin, set.TodayMax, set.TodayMean = bucketStats(set.Today)
	set.TomorrowMin, set.TomorrowMax, set.TomorrowMean = bucketStats(set.Tomorrow)
	return set
}

// appendBucket prices one bucket, appending to the combined detailed list
// and the given simplified list, and returns the bare price slice.
func appendBucket(set *model.PricedSet, simplified *[]model.HourPrice, intervals []model.PriceInterval, params CostParameters, fn priceFunc) []float64 {
	if len(intervals) == 0 {
		return nil
	}
	prices := make([]float64, 0, len(intervals))

	for _, iv := range intervals {
		price := fn(iv.Price, params)
		prices = append(prices, price)
		set.Data = append(set.Data, model.PricedInterval{
			StartTime:   iv.Start.Format(time.RFC3339),
			EndTime:     iv.End.Format(time.RFC3339),
			PricePerKWh: price,
		})
		*simplified = append(*simplified, model.HourPrice{
			Hour:  iv.Start.Format(time.RFC3339),
			Price: price,
		})
	}
	return prices
}

// bucketStats computes min, max, and mean over already-rounded prices.
// All three are absent for an empty bucket.
func bucketStats(prices []float64) (min, max, mean *float64) {
	if len(prices) == 0 {
		return nil, nil, nil
	}
	lo, hi, sum := prices[0], prices[0], 0.0
	for _, p := range prices {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
		sum += p
	}
	avg := Round4(sum / float64(len(prices)))
	return &lo, &hi, &avg
}
