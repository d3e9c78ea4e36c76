package parser

import (
	"time"

	"tariffwatch/internal/model"
)

// fallbackWidth is assumed when an interval has no neighbor to infer its
// end time from.
const fallbackWidth = time.Hour

// parseHourly handles sources that publish per-day arrays of hour/price
// entries without explicit end times:
//
//	raw_today:
//	  - hour: '2025-12-25T00:00:00+01:00'
//	    price: 0.0568
//	raw_tomorrow: [...]
//	tomorrow_valid: true
//
// End times are inferred: the next entry's start when one exists, else the
// width observed to the preceding entry, else one hour. The last tomorrow
// entry instead borrows the width between the first two today entries
// before falling back to one hour; this asymmetry is deliberate and must
// not change, since it determines the boundaries current-price matching
// sees.
func parseHourly(attrs map[string]any, now time.Time) *model.ParsedPriceSet {
	set := &model.ParsedPriceSet{}

	rawToday := resolveList(attrs, attrRawToday)
	rawTomorrow := resolveList(attrs, attrRawTomorrow)

	claimedValid := false
	if v, ok := resolveValue(attrs, attrTomorrowValid); ok {
		claimedValid = boolValue(v)
	}

	for i := range rawToday {
		start, price, ok := hourlyEntry(rawToday[i])
		if !ok {
			set.Skipped++
			continue
		}

		var end time.Time
		switch {
		case i+1 < len(rawToday):
			next, _, nextOK := hourlyEntry(rawToday[i+1])
			if !nextOK {
				set.Skipped++
				continue
			}
			end = next
		case i > 0:
			prev, _, prevOK := hourlyEntry(rawToday[i-1])
			if !prevOK {
				set.Skipped++
				continue
			}
			end = start.Add(start.Sub(prev))
		default:
			end = start.Add(fallbackWidth)
		}
		if !start.Before(end) {
			set.Skipped++
			continue
		}

		interval := model.PriceInterval{Start: start, End: end, Price: price}
		set.Today = append(set.Today, interval)

		if interval.Contains(now) {
			p := price
			set.CurrentPrice = &p
		}
	}

	for i := range rawTomorrow {
		start, price, ok := hourlyEntry(rawTomorrow[i])
		if !ok {
			set.Skipped++
			continue
		}

		var end time.Time
		switch {
		case i+1 < len(rawTomorrow):
			next, _, nextOK := hourlyEntry(rawTomorrow[i+1])
			if !nextOK {
				set.Skipped++
				continue
			}
			end = next
		case len(set.Today) > 1:
			end = start.Add(set.Today[1].Start.Sub(set.Today[0].Start))
		default:
			end = start.Add(fallbackWidth)
		}
		if !start.Before(end) {
			set.Skipped++
			continue
		}

		set.Tomorrow = append(set.Tomorrow, model.PriceInterval{Start: start, End: end, Price: price})
	}

	set.TomorrowValid = claimedValid && len(set.Tomorrow) > 0
	return set
}

// hourlyEntry extracts the start instant and price from one raw element.
func hourlyEntry(raw any) (time.Time, float64, bool) {
	entry, ok := mapValue(raw)
	if !ok {
		return time.Time{}, 0, false
	}
	hourRaw, ok := resolveValue(entry, attrHour)
	if !ok {
		return time.Time{}, 0, false
	}
	start, ok := timeValue(hourRaw)
	if !ok {
		return time.Time{}, 0, false
	}
	priceRaw, ok := resolveValue(entry, attrPrice)
	if !ok {
		return time.Time{}, 0, false
	}
	price, ok := floatValue(priceRaw)
	if !ok {
		return time.Time{}, 0, false
	}
	return start, price, true
}

func resolveList(attrs map[string]any, name string) []any {
	v, ok := resolveValue(attrs, name)
	if !ok {
		return nil
	}
	list, _ := listValue(v)
	return list
}
