package parser

import (
	"time"

	"tariffwatch/internal/model"
)

// parseEpex handles sources whose "data" array carries explicit
// start/end/price entries:
//
//	data:
//	  - start_time: '2025-12-25T00:00:00+01:00'
//	    end_time: '2025-12-25T00:15:00+01:00'
//	    price_per_kwh: 0.05678
//
// Entries are bucketed by the calendar date of their start: today,
// tomorrow, or silently dropped. The current price is the price of the
// entry whose [start, end) range contains now; with overlapping entries
// the last match wins.
func parseEpex(attrs map[string]any, now time.Time) *model.ParsedPriceSet {
	set := &model.ParsedPriceSet{}

	raw, ok := resolveValue(attrs, attrData)
	if !ok {
		return set
	}
	entries, ok := listValue(raw)
	if !ok {
		return set
	}

	tomorrow := now.AddDate(0, 0, 1)

	for _, raw := range entries {
		entry, ok := mapValue(raw)
		if !ok {
			set.Skipped++
			continue
		}
		startRaw, ok := resolveValue(entry, attrStartTime)
		if !ok {
			set.Skipped++
			continue
		}
		start, ok := timeValue(startRaw)
		if !ok {
			set.Skipped++
			continue
		}
		endRaw, ok := resolveValue(entry, attrEndTime)
		if !ok {
			set.Skipped++
			continue
		}
		end, ok := timeValue(endRaw)
		if !ok {
			set.Skipped++
			continue
		}
		priceRaw, ok := resolveValue(entry, attrPricePerKWh, attrPrice)
		if !ok {
			set.Skipped++
			continue
		}
		price, ok := floatValue(priceRaw)
		if !ok {
			set.Skipped++
			continue
		}
		if !start.Before(end) {
			set.Skipped++
			continue
		}

		interval := model.PriceInterval{Start: start, End: end, Price: price}

		switch {
		case sameDate(start, now):
			set.Today = append(set.Today, interval)
		case sameDate(start, tomorrow):
			set.Tomorrow = append(set.Tomorrow, interval)
		}

		if interval.Contains(now) {
			p := price
			set.CurrentPrice = &p
		}
	}

	set.TomorrowValid = len(set.Tomorrow) > 0
	return set
}
